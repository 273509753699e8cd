package ai

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	openai "github.com/sashabaranov/go-openai"

	notificator "github.com/Vovarama1992/always_evening/internal/error_notificator"
	"github.com/Vovarama1992/always_evening/internal/ports"
)

const (
	introPrefix    = "Let's talk about something that's been on my mind lately. "
	continuePrompt = "Continue the conversation naturally, responding to what was just said."

	turnTimeout = 60 * time.Second
)

var (
	dialogueParams = CompletionParams{Model: openai.GPT4oMini, Temperature: 0.9, MaxTokens: 150}
	journalParams  = CompletionParams{Model: openai.GPT4oMini, Temperature: 0.8, MaxTokens: 200}
)

type DialogueService struct {
	client   CompletionClient
	notifier notificator.Notificator
	log      *logger.ZapLogger
}

func NewDialogueService(client CompletionClient, notifier notificator.Notificator, log *logger.ZapLogger) *DialogueService {
	return &DialogueService{
		client:   client,
		notifier: notifier,
		log:      log,
	}
}

// SpeakerForTurn: Isaac opens (turn 0), then Lena on odd turns and Isaac on even ones.
func SpeakerForTurn(turn int) ports.Speaker {
	if turn%2 == 1 {
		return ports.SpeakerLena
	}
	return ports.SpeakerIsaac
}

func (s *DialogueService) GenerateDialogue(ctx context.Context, theme string, turns int) ([]ports.Line, error) {
	start := time.Now()
	s.info(fmt.Sprintf("generating dialogue for theme %q with %d turns", theme, turns))

	intro := introPrefix + strings.ToLower(theme)
	lines := make([]ports.Line, 0, turns)
	lines = append(lines, ports.Line{Speaker: ports.SpeakerIsaac, Text: intro, Order: 0})

	history := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleAssistant, Content: intro},
	}

	for turn := 1; turn < turns; turn++ {
		speaker := SpeakerForTurn(turn)

		reply, err := s.respond(ctx, speaker, history, theme)
		if err != nil {
			s.notify(ctx, err, fmt.Sprintf("dialogue turn %d (%s), theme %q", turn, speaker, theme))
			return nil, err
		}

		lines = append(lines, ports.Line{Speaker: speaker, Text: reply, Order: turn})
		history = append(history, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: reply,
		})
	}

	s.info(fmt.Sprintf("dialogue ready: %d lines in %.1fs", len(lines), time.Since(start).Seconds()))
	return lines, nil
}

func (s *DialogueService) respond(
	ctx context.Context,
	speaker ports.Speaker,
	history []openai.ChatCompletionMessage,
	theme string,
) (string, error) {
	ch := characters[speaker]

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf("%s\n\nToday's episode theme: \"%s\"", ch.SystemPrompt, theme),
	})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: continuePrompt,
	})

	ctxTurn, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := s.client.GetCompletion(ctxTurn, messages, dialogueParams)
	if err != nil {
		return "", fmt.Errorf("response for %s: %w", ch.Name, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = fmt.Sprintf("[%s seems to be thinking...]", ch.Name)
	}
	return reply, nil
}

func (s *DialogueService) GenerateJournal(ctx context.Context, theme string, lines []ports.Line) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(
				"You are Lena writing in her personal journal after the evening's conversation. "+
					"Reflect on what was discussed, the theme \"%s\", and any insights that emerged. "+
					"Write 3-4 sentences in a warm, reflective tone. It's late evening. Never mention being an AI.",
				theme),
		},
	}

	if transcript := formatTranscript(lines); transcript != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: "Tonight's conversation:\n" + transcript,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Write a journal entry reflecting on tonight's conversation about \"%s\".", theme),
	})

	ctxJournal, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	entry, err := s.client.GetCompletion(ctxJournal, messages, journalParams)
	if err != nil {
		err = fmt.Errorf("journal entry: %w", err)
		s.notify(ctx, err, fmt.Sprintf("journal, theme %q", theme))
		return "", err
	}

	entry = strings.TrimSpace(entry)
	if entry == "" {
		entry = "[Lena's journal entry unavailable...]"
	}
	return entry, nil
}

func (s *DialogueService) RandomTheme() string {
	return themes[rand.IntN(len(themes))]
}

func formatTranscript(lines []ports.Line) string {
	var b strings.Builder
	for _, l := range lines {
		ch, ok := characters[l.Speaker]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", ch.Name, strings.TrimSpace(l.Text))
	}
	return b.String()
}

func (s *DialogueService) info(msg string) {
	s.log.Log(logger.LogEntry{Level: "info", Message: msg, Service: "ai"})
}

func (s *DialogueService) notify(ctx context.Context, err error, details string) {
	s.log.Log(logger.LogEntry{Level: "error", Message: details, Error: err, Service: "ai"})
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, err, details)
	}
}
