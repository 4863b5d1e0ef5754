package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Separator/internal/calc/separator"
)

const MaxUploadSize = 10 << 20 // 10MB

var Header = []string{"r1_m", "r2_m", "r_channel_m", "rho1_kg_m3", "rho2_kg_m3", "bowl_radius_m"}

type Handler struct{}

type Row struct {
	Line    int              `json:"line"`
	Config  separator.Config `json:"config"`
	Result  separator.Result `json:"result"`
	Display string           `json:"display,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

type ImportResult struct {
	Count   int   `json:"count"`
	Skipped int   `json:"skipped"`
	Results []Row `json:"results"`
}

// Separator takes an xlsx upload ("file") and calculates every row of the first sheet.
// With ?format=xlsx the workbook comes back with result columns appended.
func (h *Handler) Separator(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		out, err := Export(res)
		if err != nil {
			log.Printf("export xlsx: %v", err)
			http.Error(w, "Export error", http.StatusInternalServerError)
			return
		}
		defer out.Close()
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\"separator-results.xlsx\"")
		if err := out.Write(w); err != nil {
			log.Printf("write xlsx: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func Import(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("invalid file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("empty sheet")
	}

	out := ImportResult{}
	for i := 1; i < len(rows); i++ {
		in, err := parseRow(rows[i])
		if err != nil {
			out.Skipped++
			continue
		}
		res, err := separator.Calculate(in)
		if err != nil {
			out.Skipped++
			continue
		}
		out.Results = append(out.Results, Row{
			Line:    i + 1,
			Config:  in,
			Result:  res.Result,
			Display: res.Display,
			Warning: res.Warning,
		})
	}
	out.Count = len(out.Results)
	return out, nil
}

// Export writes the calculated rows to a new workbook.
func Export(res ImportResult) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, 0, len(Header)+3)
	for _, h := range Header {
		header = append(header, h)
	}
	header = append(header, "valid", "interface_radius_m", "reason")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range res.Results {
		c := row.Config
		values := []interface{}{c.R1Meters, c.R2Meters, c.ChannelMeters, c.Rho1KGM3, c.Rho2KGM3, c.BowlRadiusM, row.Result.Valid}
		if row.Result.Valid {
			values = append(values, row.Result.RadiusM, "")
		} else {
			values = append(values, "", string(row.Result.Reason))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseRow(row []string) (separator.Config, error) {
	if len(row) < len(Header) {
		return separator.Config{}, fmt.Errorf("bad row")
	}
	v := make([]float64, len(Header))
	for i := range Header {
		f, err := toFloat(row[i])
		if err != nil {
			return separator.Config{}, err
		}
		v[i] = f
	}
	return separator.Config{
		R1Meters:      v[0],
		R2Meters:      v[1],
		ChannelMeters: v[2],
		Rho1KGM3:      v[3],
		Rho2KGM3:      v[4],
		BowlRadiusM:   v[5],
	}, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
