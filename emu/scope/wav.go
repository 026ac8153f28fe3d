package scope

import (
	"encoding/binary"
	"io"

	"github.com/go-faster/errors"
)

const (
	wavChannels      = 2
	wavBitsPerSample = 16
)

type wavHeader struct {
	RIFF          [4]byte
	ChunkSize     uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// WriteWAV writes interleaved stereo 16-bit samples as a PCM WAV file.
func WriteWAV(w io.Writer, sampleRate uint32, samples []int16) error {
	if len(samples)%wavChannels != 0 {
		return errors.Errorf("odd number of stereo samples: %d", len(samples))
	}
	dataSize := uint32(len(samples) * wavBitsPerSample / 8)
	hdr := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       16,
		AudioFormat:   1, // PCM
		NumChannels:   wavChannels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * wavChannels * wavBitsPerSample / 8,
		BlockAlign:    wavChannels * wavBitsPerSample / 8,
		BitsPerSample: wavBitsPerSample,
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "write wav header")
	}
	if err := binary.Write(w, binary.LittleEndian, samples); err != nil {
		return errors.Wrap(err, "write wav samples")
	}
	return nil
}
