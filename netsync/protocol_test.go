package netsync

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	in := &Frame{Type: MsgSnapshot, Payload: []byte("hello")}
	require.NoError(t, in.Encode(&buf))
	assert.Equal(t, HeaderSize+5, buf.Len())
	assert.Equal(t, []byte{'R', 'C', ProtocolVersion, byte(MsgSnapshot), 0, 0, 0, 5}, buf.Bytes()[:HeaderSize])

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Decode(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeRejectsBadHeaders(t *testing.T) {
	valid := func() []byte {
		b, err := (&Frame{Type: MsgState, Payload: []byte{1, 2}}).MarshalBinary()
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name   string
		mutate func(b []byte) []byte
	}{
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }},
		{"bad version", func(b []byte) []byte { b[2] = 9; return b }},
		{"unknown type", func(b []byte) []byte { b[3] = 0x7f; return b }},
		{"oversized", func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[4:8], MaxPayloadSize+1)
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(valid())

			_, err := Decode(bytes.NewReader(b))
			assert.ErrorIs(t, err, ErrMalformedPayload)

			_, err = DecodeBytes(b)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestDecodeBytesLength(t *testing.T) {
	b, err := (&Frame{Type: MsgState, Payload: []byte{1, 2, 3}}).MarshalBinary()
	require.NoError(t, err)

	_, err = DecodeBytes(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = DecodeBytes(append(b, 0))
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = DecodeBytes(b[:3])
	assert.ErrorIs(t, err, ErrMalformedPayload)

	f, err := DecodeBytes(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, f.Payload)
}

func TestTruncatedPayload(t *testing.T) {
	b, err := (&Frame{Type: MsgState, Payload: []byte{1, 2, 3}}).MarshalBinary()
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(b[:len(b)-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, closedError(err), ErrConnectionClosed)
}

func TestOversizedPayloadNotEncoded(t *testing.T) {
	f := &Frame{Type: MsgState, Payload: make([]byte, MaxPayloadSize+1)}
	assert.ErrorIs(t, f.Encode(io.Discard), ErrMalformedPayload)
}

func TestStatePayload(t *testing.T) {
	f, err := EncodeState(StateMessage{Seq: 7, Pos: [2]float64{120, 340}, Angle: 1.2})
	require.NoError(t, err)
	assert.Equal(t, MsgState, f.Type)

	m, err := DecodeState(f)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), m.Seq)
	assert.Equal(t, [2]float64{120, 340}, m.Pos)
	assert.Equal(t, 1.2, m.Angle)

	// angles are normalized on the way in
	f, err = EncodeState(StateMessage{Seq: 1, Angle: 3 * math.Pi / 2})
	require.NoError(t, err)
	m, err = DecodeState(f)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi/2, m.Angle, 1e-12)
}

func TestStatePayloadRejected(t *testing.T) {
	_, err := DecodeState(&Frame{Type: MsgState, Payload: []byte{0xff, 0x00, 0x13}})
	assert.ErrorIs(t, err, ErrMalformedPayload)

	snap, err := EncodeSnapshot(SnapshotMessage{Ack: 1})
	require.NoError(t, err)
	_, err = DecodeState(snap)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	f, err := EncodeState(StateMessage{Pos: [2]float64{math.NaN(), 0}})
	require.NoError(t, err)
	_, err = DecodeState(f)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	f, err = EncodeState(StateMessage{Angle: math.Inf(1)})
	require.NoError(t, err)
	_, err = DecodeState(f)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestSnapshotPayload(t *testing.T) {
	f, err := EncodeSnapshot(SnapshotMessage{
		Ack:  3,
		Self: "a",
		Players: map[string]PlayerEntry{
			"a": {Pos: [2]float64{1, 2}, Angle: 0.5},
			"b": {Pos: [2]float64{3, 4}, Angle: -0.5},
		},
	})
	require.NoError(t, err)

	m, err := DecodeSnapshot(f)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), m.Ack)
	assert.Equal(t, "a", m.Self)
	require.Len(t, m.Players, 2)
	assert.Equal(t, 4.0, m.Players["b"].State().Position.Y)

	_, err = DecodeSnapshot(&Frame{Type: MsgState})
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
