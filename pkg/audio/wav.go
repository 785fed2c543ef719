package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// SampleRate is the capture rate expected by the transcription provider.
	SampleRate = 16000

	// MinClipBytes is the smallest encoded clip worth sending upstream.
	// Anything shorter is a key bounce, not speech.
	MinClipBytes = 1000

	// HeaderSize is the byte length of the canonical RIFF header. Sample
	// data starts at this offset.
	HeaderSize = 44
)

// ErrClipTooShort marks a recording too brief to contain usable speech.
var ErrClipTooShort = errors.New("audio clip too short")

// WAVHeader represents the header structure of a WAV file
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // File size - 8 bytes
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16  // Number of channels
	SampleRate    uint32  // Sample rate
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16  // NumChannels * BitsPerSample / 8
	BitsPerSample uint16  // Bits per sample
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // Number of bytes in the data
}

// EncodeWAV converts float32 samples in [-1, 1] into a mono 16-bit PCM WAV
// clip at SampleRate. Out-of-range samples are clamped. Negative samples scale
// by 0x8000 and positive ones by 0x7FFF so both ends of the int16 range are
// reachable.
func EncodeWAV(samples []float32) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		if s < -1 {
			s = -1
		} else if s > 1 {
			s = 1
		}
		if s < 0 {
			pcm[i] = int16(s * 0x8000)
		} else {
			pcm[i] = int16(s * 0x7FFF)
		}
	}

	dataSize := uint32(len(pcm) * 2)
	if HeaderSize+int(dataSize) < MinClipBytes {
		return nil, ErrClipTooShort
	}

	numChannels := uint16(1)
	bitsPerSample := uint16(16)

	header := WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   numChannels,
		SampleRate:    uint32(SampleRate),
		ByteRate:      uint32(SampleRate) * uint32(numChannels) * uint32(bitsPerSample) / 8,
		BlockAlign:    numChannels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(pcm)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeWAVHeader parses and validates the 44-byte header of an encoded clip.
func DecodeWAVHeader(data []byte) (*WAVHeader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}

	var header WAVHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}

	if string(header.ChunkID[:]) != "RIFF" {
		return nil, fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(header.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("invalid WAV file: missing WAVE format")
	}
	if header.AudioFormat != 1 {
		return nil, fmt.Errorf("unsupported audio format: %d (only PCM is supported)", header.AudioFormat)
	}

	return &header, nil
}
