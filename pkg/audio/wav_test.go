package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := make([]float32, SampleRate) // one second of silence
	data, err := EncodeWAV(samples)
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+len(samples)*2)

	header, err := DecodeWAVHeader(data)
	require.NoError(t, err)

	assert.Equal(t, uint32(SampleRate), header.SampleRate)
	assert.Equal(t, uint16(1), header.NumChannels)
	assert.Equal(t, uint16(16), header.BitsPerSample)
	assert.Equal(t, uint32(len(samples)*2), header.Subchunk2Size)
	assert.Equal(t, uint32(36+len(samples)*2), header.ChunkSize)
	assert.Equal(t, uint32(SampleRate*2), header.ByteRate)
}

func TestEncodeWAVSampleScaling(t *testing.T) {
	tests := []struct {
		name   string
		sample float32
		want   int16
	}{
		{"silence", 0, 0},
		{"full negative", -1, -32768},
		{"full positive", 1, 32767},
		{"clamped below", -2.5, -32768},
		{"clamped above", 3.0, 32767},
		{"half negative", -0.5, -16384},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float32, MinClipBytes/2)
			samples[0] = tt.sample

			data, err := EncodeWAV(samples)
			require.NoError(t, err)

			got := int16(binary.LittleEndian.Uint16(data[HeaderSize:]))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeWAVTooShort(t *testing.T) {
	samples := make([]float32, 100) // 200 data bytes, well under the floor
	_, err := EncodeWAV(samples)
	assert.ErrorIs(t, err, ErrClipTooShort)
}

func TestEncodeWAVEmpty(t *testing.T) {
	_, err := EncodeWAV(nil)
	assert.Error(t, err)
}

func TestDecodeWAVHeaderRejectsGarbage(t *testing.T) {
	_, err := DecodeWAVHeader([]byte("not a wav file"))
	assert.Error(t, err)

	junk := make([]byte, HeaderSize+10)
	copy(junk, "JUNK")
	_, err = DecodeWAVHeader(junk)
	assert.Error(t, err)
}
