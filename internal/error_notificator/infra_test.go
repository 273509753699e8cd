package error_notificator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func TestTelegramInfraSendsToAdminChat(t *testing.T) {
	fs := &fakeSender{}
	infra := &TelegramInfra{bot: fs, chatID: 77, log: nopLogger()}

	err := infra.Notify(context.Background(), errors.New("tts down"), "line 3")
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)
	assert.Equal(t, int64(77), fs.sent[0].ChatID)
	assert.Contains(t, fs.sent[0].Text, "tts down")
	assert.Contains(t, fs.sent[0].Text, "line 3")
}

func TestTelegramInfraTruncatesLongMessages(t *testing.T) {
	fs := &fakeSender{}
	infra := &TelegramInfra{bot: fs, chatID: 1, log: nopLogger()}

	require.NoError(t, infra.Notify(context.Background(), errors.New("x"), strings.Repeat("d", 10000)))
	assert.Len(t, fs.sent[0].Text, maxMessageLen)
}

func TestTelegramInfraTruncatesOnRuneBoundary(t *testing.T) {
	fs := &fakeSender{}
	infra := &TelegramInfra{bot: fs, chatID: 1, log: nopLogger()}

	require.NoError(t, infra.Notify(context.Background(), errors.New("x"), strings.Repeat("ё", 5000)))
	text := fs.sent[0].Text
	assert.True(t, utf8.ValidString(text))
	assert.LessOrEqual(t, len(text), maxMessageLen)
	assert.Greater(t, len(text), maxMessageLen-utf8.UTFMax)
	assert.True(t, strings.HasPrefix(text, "❗"))
}

func TestTruncateUTF8(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"ёё", 3, "ё"},
		{"ёё", 4, "ёё"},
		{"❗x", 2, ""},
		{"❗x", 3, "❗"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, truncateUTF8(c.in, c.n), "%q/%d", c.in, c.n)
	}
}

func TestTelegramInfraReturnsSendError(t *testing.T) {
	fs := &fakeSender{err: errors.New("forbidden")}
	infra := &TelegramInfra{bot: fs, chatID: 1, log: nopLogger()}

	assert.EqualError(t, infra.Notify(context.Background(), errors.New("x"), "d"), "forbidden")
}

func TestServiceSkipsNilErrors(t *testing.T) {
	fs := &fakeSender{}
	svc := NewService(&TelegramInfra{bot: fs, chatID: 1, log: nopLogger()})

	require.NoError(t, svc.Notify(context.Background(), nil, "nothing"))
	assert.Empty(t, fs.sent)

	require.NoError(t, svc.Notify(context.Background(), errors.New("boom"), "something"))
	assert.Len(t, fs.sent, 1)
}

func TestLogInfraNeverFails(t *testing.T) {
	assert.NoError(t, NewLogInfra(nopLogger()).Notify(context.Background(), errors.New("x"), "d"))
}
