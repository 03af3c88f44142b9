// Package wavio decodes WAV files into normalized mono sample buffers.
package wavio

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sample format constants
const (
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt8  = 128.0
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// 8-bit WAV samples are unsigned with this midpoint.
	uint8Offset = 128

	wavFormatPCM = 1
)

var (
	// ErrInvalidWAV is returned for files that are not decodable PCM WAV.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnknownChannelMode is returned by ParseChannelMode.
	ErrUnknownChannelMode = errors.New("unknown channel mode")
)

// ChannelMode selects how multichannel audio becomes mono.
type ChannelMode int

const (
	// ChannelMix averages all channels.
	ChannelMix ChannelMode = iota
	// ChannelFirst keeps only the first channel.
	ChannelFirst
)

// ParseChannelMode maps "mix" or "first" to a ChannelMode.
func ParseChannelMode(s string) (ChannelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mix":
		return ChannelMix, nil
	case "first":
		return ChannelFirst, nil
	default:
		return ChannelMix, fmt.Errorf("%w: %q", ErrUnknownChannelMode, s)
	}
}

func (m ChannelMode) String() string {
	if m == ChannelFirst {
		return "first"
	}
	return "mix"
}

// Recording is a decoded WAV file reduced to one channel.
type Recording struct {
	Samples    []float64 // normalized to roughly [-1, 1]
	SampleRate int
	Channels   int // channel count in the file
	BitDepth   int
}

// Read decodes the WAV file at path.
func Read(path string, mode ChannelMode) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: %s: unsupported audio format %d", ErrInvalidWAV, path, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %s: no channels", ErrInvalidWAV, path)
	}

	return &Recording{
		Samples:    toMono(buf, channels, bitDepth, mode),
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   bitDepth,
	}, nil
}

// toMono normalizes interleaved integer samples and folds them to one channel.
func toMono(buf *audio.IntBuffer, channels, bitDepth int, mode ChannelMode) []float64 {
	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	invMax := 1.0 / getMaxValue(bitDepth)
	offset := 0
	if bitDepth == bitsPerSample8 {
		offset = uint8Offset
	}

	if mode == ChannelFirst || channels == 1 {
		for i := range frames {
			out[i] = float64(buf.Data[i*channels]-offset) * invMax
		}
		return out
	}

	invChannels := 1.0 / float64(channels)
	for i := range frames {
		base := i * channels
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[base+ch] - offset)
		}
		out[i] = sum * invMax * invChannels
	}
	return out
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// Write encodes mono samples as 16, 24 or 32-bit PCM WAV, clamping to
// [-1, 1]. It is used to produce fixtures and test signals.
func Write(path string, samples []float64, sampleRate, bitDepth int) (err error) {
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	maxVal := getMaxValue(bitDepth)
	data := make([]int, len(samples))
	for i, s := range samples {
		s = min(max(s, -1), 1)
		data[i] = int(s * maxVal)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, wavFormatPCM)
	if err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return enc.Close()
}
