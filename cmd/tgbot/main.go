package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"Separator/internal/calc/separator"
	"Separator/internal/config"
)

const usage = "Send /interface r1 r2 r_channel rho1 rho2 bowl_radius\n" +
	"radii in m, densities in kg/m3, e.g. /interface 0.10 0.109 0.05 850 1000 0.22"

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

type Bot struct {
	Token   string
	BaseURL string
	Client  *http.Client
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config error: ", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("TOKEN_BOT missing")
	}
	bot := &Bot{
		Token:   cfg.BotToken,
		BaseURL: "https://api.telegram.org",
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
	log.Println("bot started")

	offset := 0
	for ctx.Err() == nil {
		updates, err := bot.getUpdates(ctx, offset)
		if err != nil {
			log.Println("getUpdates error:", err)
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil {
				continue
			}
			if err := bot.sendMessage(ctx, u.Message.Chat.ID, Reply(u.Message.Text)); err != nil {
				log.Println("sendMessage error:", err)
			}
		}
		sleep(ctx, time.Second)
	}
	log.Println("bot stopped")
}

// Reply builds the answer for one chat message.
func Reply(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return usage
	}
	switch strings.SplitN(fields[0], "@", 2)[0] {
	case "/interface":
	case "/defaults":
		return format(separator.DefaultConfig())
	default:
		return usage
	}

	in, err := parseArgs(fields[1:])
	if err != nil {
		return err.Error() + "\n" + usage
	}
	return format(in)
}

func format(in separator.Config) string {
	res, err := separator.Calculate(in)
	if err != nil {
		return err.Error()
	}
	if res.Result.Valid {
		return fmt.Sprintf("Interface Radius (R): %s\nlight phase 0 - %.4f m, heavy phase %.4f - %.3f m",
			res.Display, res.Result.RadiusM, res.Result.RadiusM, in.BowlRadiusM)
	}
	return res.Warning
}

func parseArgs(args []string) (separator.Config, error) {
	if len(args) != 6 {
		return separator.Config{}, fmt.Errorf("expected 6 numbers, got %d", len(args))
	}
	v := make([]float64, 6)
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.ReplaceAll(a, ",", "."), 64)
		if err != nil {
			return separator.Config{}, fmt.Errorf("bad number %q", a)
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

func (b *Bot) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	u := fmt.Sprintf("%s/bot%s/getUpdates?timeout=20&offset=%d", b.BaseURL, b.Token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := b.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("telegram returned not ok")
	}
	return out.Result, nil
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)
	u := fmt.Sprintf("%s/bot%s/sendMessage", b.BaseURL, b.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := b.Client.Do(req)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("sendMessage status %d", res.StatusCode)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
