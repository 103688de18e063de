package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"blog-platform/pkg/utils"

	"go.uber.org/zap"
)

// TelegramGateway forwards messages to an operator chat through the Bot API.
// It stands in for email in environments without SMTP.
type TelegramGateway struct {
	baseURL string
	chatID  string
	client  *http.Client
	log     *zap.Logger
}

func NewTelegramGateway(cfg utils.TelegramConfig, log *zap.Logger) *TelegramGateway {
	base := strings.TrimRight(cfg.APIURL, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &TelegramGateway{
		baseURL: fmt.Sprintf("%s/bot%s", base, cfg.BotToken),
		chatID:  cfg.ChatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With(zap.String("gateway", "telegram")),
	}
}

type telegramSendMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type telegramResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (g *TelegramGateway) Deliver(ctx context.Context, msg Message) error {
	if g.chatID == "" {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(telegramSendMessage{
		ChatID:                g.chatID,
		Text:                  telegramText(msg),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("encode telegram message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/sendMessage", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	var result telegramResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram api: %s", result.Description)
	}

	g.log.Info("Telegram notification sent", zap.String("to", msg.To), zap.String("kind", string(msg.Kind)))
	return nil
}

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag       = regexp.MustCompile(`<[^>]*>?`)
)

const newsletterPreviewLimit = 300

func telegramText(msg Message) string {
	to := html.EscapeString(msg.To)
	if msg.Kind == KindVerification {
		return fmt.Sprintf("🔐 <b>VERIFICATION CODE</b>\n\n👤 <b>User:</b> %s\n🔑 <b>Code:</b> <code>%s</code>",
			to, html.EscapeString(msg.Code))
	}

	preview := lineBreakTag.ReplaceAllString(msg.Body, "\n")
	preview = strings.TrimSpace(anyTag.ReplaceAllString(preview, ""))
	if r := []rune(preview); len(r) > newsletterPreviewLimit {
		preview = string(r[:newsletterPreviewLimit])
	}
	return fmt.Sprintf("📢 <b>NEWSLETTER</b>\n\n📬 <b>To:</b> %s\n📌 <b>Subject:</b> %s\n\n📝 %s...",
		to, html.EscapeString(msg.Subject), html.EscapeString(preview))
}
