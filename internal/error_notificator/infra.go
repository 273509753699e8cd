package error_notificator

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLen = 4000

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramInfra posts failures into an admin chat.
type TelegramInfra struct {
	bot    sender
	chatID int64
	log    *logger.ZapLogger
}

func NewTelegramInfra(token string, chatID int64, log *logger.ZapLogger) (*TelegramInfra, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramInfra{bot: bot, chatID: chatID, log: log}, nil
}

func (i *TelegramInfra) Notify(ctx context.Context, err error, details string) error {
	text := fmt.Sprintf("❗ Always Evening error\n\nError: %v\n\nDetails: %s", err, details)
	text = truncateUTF8(text, maxMessageLen)

	if _, sendErr := i.bot.Send(tgbotapi.NewMessage(i.chatID, text)); sendErr != nil {
		i.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "error_notificator: telegram send failed",
			Error:   sendErr,
			Service: "error_notificator",
		})
		return sendErr
	}
	return nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// LogInfra is used when no admin chat is configured.
type LogInfra struct {
	log *logger.ZapLogger
}

func NewLogInfra(log *logger.ZapLogger) *LogInfra {
	return &LogInfra{log: log}
}

func (i *LogInfra) Notify(ctx context.Context, err error, details string) error {
	i.log.Log(logger.LogEntry{
		Level:   "error",
		Message: "error_notificator: " + details,
		Error:   err,
		Service: "error_notificator",
	})
	return nil
}
