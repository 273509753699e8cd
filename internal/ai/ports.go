package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

type CompletionParams struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

type CompletionClient interface {
	GetCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, p CompletionParams) (string, error)
}

type Service interface {
	// GenerateDialogue returns `turns` lines, Isaac opening with the theme.
	GenerateDialogue(ctx context.Context, theme string, turns int) ([]ports.Line, error)
	// GenerateJournal writes Lena's closing journal entry for the episode.
	GenerateJournal(ctx context.Context, theme string, lines []ports.Line) (string, error)
	RandomTheme() string
}
