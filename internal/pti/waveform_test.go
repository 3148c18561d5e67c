package pti

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func encodeBlock(preambleA, preambleB int32, channels [7][]float64) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, preambleA)
	binary.Write(&buf, binary.LittleEndian, preambleB)
	for _, channel := range channels {
		for _, v := range channel {
			var bits [8]byte
			binary.LittleEndian.PutUint64(bits[:], math.Float64bits(v))
			buf.Write(bits[:])
		}
	}
	return buf.Bytes()
}

// Property 1 (spec.md §8): reader round-trip. Preamble bytes are consumed
// but discarded; the seven channel arrays return bit-identical.
func TestReadBlock_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sampleCount := rapid.IntRange(1, 200).Draw(t, "sampleCount")

		var channels [7][]float64
		for i := range channels {
			channels[i] = rapid.SliceOfN(rapid.Float64Range(-10, 10), sampleCount, sampleCount).Draw(t, "channel")
		}
		preambleA := rapid.Int32().Draw(t, "preambleA")
		preambleB := rapid.Int32().Draw(t, "preambleB")

		data := encodeBlock(preambleA, preambleB, channels)
		block, err := ReadBlock(bytes.NewReader(data), sampleCount)
		require.NoError(t, err)

		assert.Equal(t, channels[0], block.DC1)
		assert.Equal(t, channels[1], block.DC2)
		assert.Equal(t, channels[2], block.DC3)
		assert.Equal(t, channels[3], block.Ref)
		assert.Equal(t, channels[4], block.AC1)
		assert.Equal(t, channels[5], block.AC2)
		assert.Equal(t, channels[6], block.AC3)
	})
}

func TestReadBlock_CleanEOFAtBoundary(t *testing.T) {
	_, err := ReadBlock(bytes.NewReader(nil), 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadBlock_TruncatedMidBlock(t *testing.T) {
	var channels [7][]float64
	for i := range channels {
		channels[i] = make([]float64, 5)
	}
	data := encodeBlock(0, 0, channels)
	truncated := data[:len(data)-3] // lop off part of the last channel

	_, err := ReadBlock(bytes.NewReader(truncated), 5)
	require.Error(t, err)
	var ptiErr *Error
	require.ErrorAs(t, err, &ptiErr)
	assert.Equal(t, TruncatedBlock, ptiErr.Kind)
}

func TestReadHeader_ConsumesExactly30Bytes(t *testing.T) {
	data := append(make([]byte, HeaderSize), []byte("rest")...)
	r := bytes.NewReader(data)
	require.NoError(t, ReadHeader(r))

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "rest", string(rest))
}
