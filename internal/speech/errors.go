package speech

import "codeberg.org/mutker/overtake/internal/errors"

const (
	ErrRequestFailed = errors.ErrorCode("speech_request_failed")
	ErrBadStatus     = errors.ErrorCode("speech_bad_status")
	ErrAudioSink     = errors.ErrorCode("speech_audio_sink_failed")
)
