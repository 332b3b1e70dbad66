package tts

import "context"

// Synthesizer converts reply text into one complete audio payload.
type Synthesizer interface {
	// Name returns adapter name for logging.
	Name() string
	// Synthesize returns encoded audio bytes for the given text.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// ContentType reports the MIME type of Synthesize output.
	ContentType() string
}
