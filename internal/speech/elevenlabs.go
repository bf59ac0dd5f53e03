package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
	maxAudioBytes   = 16 << 20
)

// AudioSink receives synthesized audio. Playback happens elsewhere.
type AudioSink interface {
	Write(ctx context.Context, text string, audio []byte) error
}

// ElevenLabs is a notify service that synthesizes each message with the
// ElevenLabs text-to-speech API.
type ElevenLabs struct {
	cfg    Config
	client *http.Client
	sink   AudioSink
}

func NewElevenLabs(cfg Config, sink AudioSink) *ElevenLabs {
	return &ElevenLabs{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		sink:   sink,
	}
}

// Send implements notify.Notifier. The subject is not spoken.
func (e *ElevenLabs) Send(ctx context.Context, _, message string) error {
	errFactory := errors.New()

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: message})
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}

	endpoint := e.cfg.Endpoint + "/" + url.PathEscape(e.cfg.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrBadStatus, resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return errFactory.Wrap(ErrRequestFailed, err)
	}

	if err := e.sink.Write(ctx, message, audio); err != nil {
		return errFactory.Wrap(ErrAudioSink, err)
	}

	return nil
}

// FileSink spools each clip to its own file
type FileSink struct {
	Dir string
	now func() time.Time
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir, now: time.Now}
}

func (f *FileSink) Write(_ context.Context, _ string, audio []byte) error {
	if err := os.MkdirAll(f.Dir, defaultDirPerm); err != nil {
		return err
	}

	path := filepath.Join(f.Dir, f.now().UTC().Format("20060102T150405.000Z")+".mp3")
	if err := os.WriteFile(path, audio, defaultFilePerm); err != nil {
		return err
	}

	logger.Debug().Str("path", path).Int("bytes", len(audio)).Msg("Spooled announcement audio")
	return nil
}
