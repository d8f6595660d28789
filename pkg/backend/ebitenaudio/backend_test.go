package ebitenaudio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcmWAV builds a 16-bit stereo WAV with n silent frames.
func pcmWAV(sampleRate, frames int) []byte {
	const channels, bits = 2, 16
	dataLen := frames * channels * bits / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*bits/8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*bits/8))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	s, err := decode("sfx/click.wav", 44100, bytes.NewReader(pcmWAV(44100, 441)))
	require.NoError(t, err)
	assert.Positive(t, s.Length())
}

func TestDecodeUppercaseExtension(t *testing.T) {
	_, err := decode("SFX/CLICK.WAV", 44100, bytes.NewReader(pcmWAV(44100, 10)))
	assert.NoError(t, err)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	_, err := decode("music/cave.flac", 44100, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeReportsCorruptData(t *testing.T) {
	_, err := decode("music/cave.wav", 44100, bytes.NewReader([]byte("not a wav file")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode wav")
}
