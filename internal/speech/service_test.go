package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/always_evening/internal/ports"
)

type fakeTTS struct {
	results []error
	calls   int
	speaker ports.Speaker
}

func (f *fakeTTS) Synthesize(_ context.Context, speaker ports.Speaker, text string) ([]byte, error) {
	f.calls++
	f.speaker = speaker
	if f.calls-1 < len(f.results) && f.results[f.calls-1] != nil {
		return nil, f.results[f.calls-1]
	}
	return []byte("mp3:" + text), nil
}

type fakeNotifier struct{ n int }

func (f *fakeNotifier) Notify(context.Context, error, string) error {
	f.n++
	return nil
}

func newTestService(tts TTSClient, n *fakeNotifier) *Service {
	return NewService(tts, n, 0, logger.NewZapLogger(zap.NewNop().Sugar()))
}

func TestSynthesizeFirstTry(t *testing.T) {
	tts := &fakeTTS{}
	svc := newTestService(tts, &fakeNotifier{})

	data, err := svc.Synthesize(context.Background(), ports.SpeakerLena, "hello")
	require.NoError(t, err)
	assert.Equal(t, "mp3:hello", string(data))
	assert.Equal(t, 1, tts.calls)
	assert.Equal(t, ports.SpeakerLena, tts.speaker)
}

func TestSynthesizeRetriesOnce(t *testing.T) {
	tts := &fakeTTS{results: []error{errors.New("timeout")}}
	n := &fakeNotifier{}
	svc := newTestService(tts, n)

	data, err := svc.Synthesize(context.Background(), ports.SpeakerIsaac, "hi")
	require.NoError(t, err)
	assert.Equal(t, "mp3:hi", string(data))
	assert.Equal(t, 2, tts.calls)
	assert.Zero(t, n.n)
}

func TestSynthesizeGivesUpAfterSecondFailure(t *testing.T) {
	tts := &fakeTTS{results: []error{errors.New("first"), errors.New("second")}}
	n := &fakeNotifier{}
	svc := newTestService(tts, n)

	_, err := svc.Synthesize(context.Background(), ports.SpeakerIsaac, "hi")
	assert.EqualError(t, err, "second")
	assert.Equal(t, 2, tts.calls)
	assert.Equal(t, 1, n.n)
}

func TestSynthesizeRejectsUnknownSpeaker(t *testing.T) {
	tts := &fakeTTS{}
	svc := newTestService(tts, &fakeNotifier{})

	_, err := svc.Synthesize(context.Background(), ports.Speaker("BOB"), "hi")
	assert.Error(t, err)
	assert.Zero(t, tts.calls)
}

func TestSynthesizeStopsWaitingOnCancel(t *testing.T) {
	tts := &fakeTTS{results: []error{errors.New("first")}}
	svc := newTestService(tts, &fakeNotifier{})
	svc.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Synthesize(ctx, ports.SpeakerLena, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, tts.calls)
}

func TestSynthesizeWaitsRetryDelay(t *testing.T) {
	tts := &fakeTTS{results: []error{errors.New("first")}}
	svc := NewService(tts, &fakeNotifier{}, 50*time.Millisecond, logger.NewZapLogger(zap.NewNop().Sugar()))

	start := time.Now()
	_, err := svc.Synthesize(context.Background(), ports.SpeakerIsaac, "hi")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 2, tts.calls)
}
