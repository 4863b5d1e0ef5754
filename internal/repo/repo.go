package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"Separator/internal/calc/separator"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)

	SavePreset(ctx context.Context, userID int, name string, cfg separator.Config) (Preset, error)
	ListPresets(ctx context.Context, userID int) ([]Preset, error)
	GetPreset(ctx context.Context, userID, id int) (Preset, error)
	DeletePreset(ctx context.Context, userID, id int) error

	RecordCalculation(ctx context.Context, userID int, in separator.Config, res separator.Result) error
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
}

type Preset struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Config    separator.Config `json:"config"`
	CreatedAt time.Time        `json:"created_at"`
}

type Calculation struct {
	ID        string           `json:"id"`
	Config    separator.Config `json:"config"`
	Result    separator.Result `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}

// configRow is the column layout shared by presets and calculations.
type configRow struct {
	R1      float64 `db:"r1_m"`
	R2      float64 `db:"r2_m"`
	Channel float64 `db:"r_channel_m"`
	Rho1    float64 `db:"rho1_kg_m3"`
	Rho2    float64 `db:"rho2_kg_m3"`
	Bowl    float64 `db:"bowl_radius_m"`
}

func (c configRow) config() separator.Config {
	return separator.Config{
		R1Meters:      c.R1,
		R2Meters:      c.R2,
		ChannelMeters: c.Channel,
		Rho1KGM3:      c.Rho1,
		Rho2KGM3:      c.Rho2,
		BowlRadiusM:   c.Bowl,
	}
}

type presetRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	configRow
}

type calculationRow struct {
	ID        string    `db:"id"`
	Valid     bool      `db:"valid"`
	RadiusM   float64   `db:"radius_m"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
	configRow
}

type SQLRepository struct {
	db *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Open connects to postgres (production) or sqlite (local runs and tests) and creates the schema.
func Open(driver, connStr string) (*sqlx.DB, error) {
	switch driver {
	case "postgres":
		if connStr == "" {
			connStr = "user=postgres dbname=postgres password=password sslmode=disable"
		}
		if !strings.Contains(connStr, "sslmode=") {
			if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
				connStr = connStr + "?sslmode=require"
			} else {
				connStr = connStr + " sslmode=require"
			}
		}
	case "sqlite":
		if connStr == "" {
			connStr = "separator.db"
		}
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}

	db, err := sqlx.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	id, num := "SERIAL PRIMARY KEY", "DOUBLE PRECISION"
	if db.DriverName() == "sqlite" {
		id, num = "INTEGER PRIMARY KEY AUTOINCREMENT", "REAL"
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + id + `,
			login TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS presets (
			id ` + id + `,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			r1_m ` + num + ` NOT NULL,
			r2_m ` + num + ` NOT NULL,
			r_channel_m ` + num + ` NOT NULL,
			rho1_kg_m3 ` + num + ` NOT NULL,
			rho2_kg_m3 ` + num + ` NOT NULL,
			bowl_radius_m ` + num + ` NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calculations (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			r1_m ` + num + ` NOT NULL,
			r2_m ` + num + ` NOT NULL,
			r_channel_m ` + num + ` NOT NULL,
			rho1_kg_m3 ` + num + ` NOT NULL,
			rho2_kg_m3 ` + num + ` NOT NULL,
			bowl_radius_m ` + num + ` NOT NULL,
			valid BOOLEAN NOT NULL,
			radius_m ` + num + ` NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_presets_user ON presets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_user ON calculations(user_id, created_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := r.db.Rebind("INSERT INTO users (login, email, password) VALUES (?, ?, ?) RETURNING id")
	err := r.db.QueryRowxContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetBylogin returns id 0 and an empty hash when the user does not exist.
func (r *SQLRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := r.db.Rebind("SELECT id, password FROM users WHERE login=?")

	err := r.db.QueryRowxContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *SQLRepository) SavePreset(ctx context.Context, userID int, name string, cfg separator.Config) (Preset, error) {
	p := Preset{Name: name, Config: cfg, CreatedAt: time.Now().UTC()}
	query := r.db.Rebind(`INSERT INTO presets (user_id, name, r1_m, r2_m, r_channel_m, rho1_kg_m3, rho2_kg_m3, bowl_radius_m, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query, userID, name,
		cfg.R1Meters, cfg.R2Meters, cfg.ChannelMeters, cfg.Rho1KGM3, cfg.Rho2KGM3, cfg.BowlRadiusM,
		p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return Preset{}, fmt.Errorf("save preset: %w", err)
	}
	return p, nil
}

const presetColumns = "id, name, r1_m, r2_m, r_channel_m, rho1_kg_m3, rho2_kg_m3, bowl_radius_m, created_at"

func (r *SQLRepository) ListPresets(ctx context.Context, userID int) ([]Preset, error) {
	var rows []presetRow
	query := r.db.Rebind("SELECT " + presetColumns + " FROM presets WHERE user_id=? ORDER BY id")
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]Preset, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.preset())
	}
	return out, nil
}

func (r *SQLRepository) GetPreset(ctx context.Context, userID, id int) (Preset, error) {
	var row presetRow
	query := r.db.Rebind("SELECT " + presetColumns + " FROM presets WHERE user_id=? AND id=?")
	if err := r.db.GetContext(ctx, &row, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preset{}, ErrNotFound
		}
		return Preset{}, fmt.Errorf("get preset: %w", err)
	}
	return row.preset(), nil
}

func (r *SQLRepository) DeletePreset(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM presets WHERE user_id=? AND id=?"), userID, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) RecordCalculation(ctx context.Context, userID int, in separator.Config, res separator.Result) error {
	query := r.db.Rebind(`INSERT INTO calculations (id, user_id, r1_m, r2_m, r_channel_m, rho1_kg_m3, rho2_kg_m3, bowl_radius_m, valid, radius_m, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID,
		in.R1Meters, in.R2Meters, in.ChannelMeters, in.Rho1KGM3, in.Rho2KGM3, in.BowlRadiusM,
		res.Valid, res.RadiusM, string(res.Reason), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record calculation: %w", err)
	}
	return nil
}

// ListCalculations returns the newest calculations first.
func (r *SQLRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var rows []calculationRow
	query := r.db.Rebind(`SELECT id, r1_m, r2_m, r_channel_m, rho1_kg_m3, rho2_kg_m3, bowl_radius_m, valid, radius_m, reason, created_at
		FROM calculations WHERE user_id=? ORDER BY created_at DESC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	out := make([]Calculation, 0, len(rows))
	for _, row := range rows {
		out = append(out, Calculation{
			ID:        row.ID,
			Config:    row.config(),
			Result:    separator.Result{Valid: row.Valid, RadiusM: row.RadiusM, Reason: separator.Reason(row.Reason)},
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (p presetRow) preset() Preset {
	return Preset{ID: p.ID, Name: p.Name, Config: p.config(), CreatedAt: p.CreatedAt}
}
