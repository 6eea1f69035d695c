package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteWAV writes the track as a RIFF/WAVE file with a single PCM data
// chunk.
func WriteWAV(w io.Writer, t Track) error {
	if t.Rate <= 0 || t.Channels <= 0 || t.Bits != 16 {
		return fmt.Errorf("unsupported track format: rate=%d channels=%d bits=%d",
			t.Rate, t.Channels, t.Bits)
	}

	data := t.Bytes()
	blockAlign := t.Channels * t.Bits / 8

	var header [44]byte
	copy(header[0:], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+len(data)))
	copy(header[8:], "WAVE")
	copy(header[12:], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:], uint16(t.Channels))
	binary.LittleEndian.PutUint32(header[24:], uint32(t.Rate))
	binary.LittleEndian.PutUint32(header[28:], uint32(t.Rate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:], uint16(t.Bits))
	copy(header[36:], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing wav data: %w", err)
	}
	return nil
}
