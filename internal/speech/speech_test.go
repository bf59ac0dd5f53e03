package speech_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (r *recordingNotifier) Send(_ context.Context, _, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return r.err
}

type memorySink struct {
	text  string
	audio []byte
}

func (m *memorySink) Write(_ context.Context, text string, audio []byte) error {
	m.text = text
	m.audio = audio
	return nil
}

func TestAnnounceWithoutKeyUsesFallback(t *testing.T) {
	fallback := &recordingNotifier{}
	a := speech.New(speech.DefaultConfig(), speech.WithFallback(fallback))

	a.Announce(context.Background(), "Pit this lap for fresh tyres")

	assert.Equal(t, []string{"Pit this lap for fresh tyres"}, fallback.messages)
}

func TestAnnouncePrimaryFailureFallsBack(t *testing.T) {
	primary := &recordingNotifier{err: errors.New().New(speech.ErrBadStatus)}
	fallback := &recordingNotifier{}
	a := speech.New(speech.DefaultConfig(),
		speech.WithServices(primary),
		speech.WithFallback(fallback),
	)

	a.Announce(context.Background(), "Attempt an aggressive pass now")

	assert.Equal(t, []string{"Attempt an aggressive pass now"}, primary.messages)
	assert.Equal(t, []string{"Attempt an aggressive pass now"}, fallback.messages)
}

func TestAnnouncePrimarySuccessSkipsFallback(t *testing.T) {
	primary := &recordingNotifier{}
	fallback := &recordingNotifier{}
	a := speech.New(speech.DefaultConfig(),
		speech.WithServices(primary),
		speech.WithFallback(fallback),
	)

	a.Announce(context.Background(), "Maintain pace; monitor tyre temps")

	assert.Len(t, primary.messages, 1)
	assert.Empty(t, fallback.messages)
}

func TestElevenLabsSend(t *testing.T) {
	var gotPath, gotKey, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotText = body.Text
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	cfg := speech.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.VoiceID = "voice 1"
	cfg.Endpoint = srv.URL + "/v1/text-to-speech"

	sink := &memorySink{}
	err := speech.NewElevenLabs(cfg, sink).Send(context.Background(), "overtake", "Cool the tyres")
	require.NoError(t, err)

	assert.Equal(t, "/v1/text-to-speech/voice 1", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Cool the tyres", gotText)
	assert.Equal(t, "Cool the tyres", sink.text)
	assert.Equal(t, []byte("ID3audio"), sink.audio)
}

func TestElevenLabsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := speech.DefaultConfig()
	cfg.APIKey = "bad"
	cfg.Endpoint = srv.URL

	err := speech.NewElevenLabs(cfg, &memorySink{}).Send(context.Background(), "", "hello")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, speech.ErrBadStatus))
}

func TestFileSinkWritesClip(t *testing.T) {
	dir := t.TempDir()
	sink := speech.NewFileSink(dir)

	require.NoError(t, sink.Write(context.Background(), "hello", []byte("mp3")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), ".mp3")
}
