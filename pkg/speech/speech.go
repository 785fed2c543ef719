package speech

import "context"

// Transcriber converts recorded speech into text.
type Transcriber interface {
	// Transcribe takes a complete WAV clip. An empty transcript with a nil
	// error means the provider heard nothing usable.
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// Synthesizer renders text into playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language, voiceId string) ([]byte, error)
}
