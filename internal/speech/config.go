package speech

import "time"

const (
	defaultEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"
	defaultVoiceID  = "alloy"
	defaultTimeout  = 10 * time.Second
	defaultSpoolDir = "/var/lib/overtake/audio"
)

type Config struct {
	APIKey   string
	VoiceID  string
	Endpoint string
	SpoolDir string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		VoiceID:  defaultVoiceID,
		Endpoint: defaultEndpoint,
		SpoolDir: defaultSpoolDir,
		Timeout:  defaultTimeout,
	}
}

// Enabled reports whether remote text-to-speech is configured
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
