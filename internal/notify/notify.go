// Package notify delivers scheduled reports.
package notify

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts reports to a single chat using HTML parse mode.
type Telegram struct {
	api    sender
	chatID int64
	log    *zap.Logger
}

// NewTelegram authorizes the bot token against the Telegram API.
func NewTelegram(token string, chatID int64, log *zap.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log = log.Named("telegram")
	log.Info("bot authorized", zap.String("account", api.Self.UserName))
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	for _, chunk := range split(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.sendText(chunk); err != nil {
			return fmt.Errorf("send to %d: %w", t.chatID, err)
		}
	}
	return nil
}

func (t *Telegram) sendText(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.api.Send(msg)
	return err
}

// Log writes reports to the logger. It is used when no bot is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("report")}
}

func (l *Log) Notify(_ context.Context, text string) error {
	l.log.Info("report", zap.String("text", text))
	return nil
}

// split cuts text into pieces of at most limit bytes, preferring line breaks
// and never splitting a rune.
func split(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
