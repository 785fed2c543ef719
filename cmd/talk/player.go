package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"ai-voicetutor-be/pkg/audio"

	"github.com/ebitengine/oto/v3"
)

// otoPlayer renders server WAV replies through the default output device. One
// oto context is shared for the process lifetime.
type otoPlayer struct {
	ctx *oto.Context
}

func newOtoPlayer() (*otoPlayer, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	<-ready

	return &otoPlayer{ctx: otoCtx}, nil
}

func (p *otoPlayer) Play(ctx context.Context, wav []byte) error {
	header, err := audio.DecodeWAVHeader(wav)
	if err != nil {
		return err
	}
	if header.SampleRate != audio.SampleRate || header.NumChannels != 1 {
		return fmt.Errorf("unsupported WAV format: %d Hz, %d channels", header.SampleRate, header.NumChannels)
	}

	player := p.ctx.NewPlayer(bytes.NewReader(wav[audio.HeaderSize:]))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
