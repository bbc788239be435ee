package netsync

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/harbdog/raycaster-go/geom"

	"example.com/arena/model"
)

// MessageType identifies the payload schema of a frame
type MessageType uint8

const (
	MsgState    MessageType = 0x01 // client -> server
	MsgSnapshot MessageType = 0x02 // server -> client
)

func (t MessageType) String() string {
	switch t {
	case MsgState:
		return "state"
	case MsgSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("type(0x%02x)", uint8(t))
	}
}

// Frame header, fixed 8 bytes: [Magic:2][Version:1][Type:1][Len:4]
const (
	HeaderSize      = 8
	ProtocolVersion = 1
	MaxPayloadSize  = 1 << 20
)

var frameMagic = [2]byte{'R', 'C'}

// Frame is one length-prefixed message on the wire.
type Frame struct {
	Type    MessageType
	Payload []byte
}

// MarshalBinary returns header and payload as one buffer.
func (f *Frame) MarshalBinary() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrMalformedPayload, len(f.Payload), MaxPayloadSize)
	}

	buf := make([]byte, HeaderSize+len(f.Payload))
	buf[0], buf[1] = frameMagic[0], frameMagic[1]
	buf[2] = ProtocolVersion
	buf[3] = byte(f.Type)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf, nil
}

// Encode writes the frame with a single Write.
func (f *Frame) Encode(w io.Writer) error {
	buf, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Decode reads exactly one frame from r. A short read of the header or payload
// is returned as the underlying io error.
func Decode(r io.Reader) (*Frame, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	f, size, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	if size > 0 {
		f.Payload = make([]byte, size)
		if _, err := io.ReadFull(r, f.Payload); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// DecodeBytes parses a buffer that holds exactly one frame.
func DecodeBytes(b []byte) (*Frame, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: short frame of %d bytes", ErrMalformedPayload, len(b))
	}

	f, size, err := parseHeader(b[:HeaderSize])
	if err != nil {
		return nil, err
	}
	if len(b)-HeaderSize != size {
		return nil, fmt.Errorf("%w: header length %d, got %d", ErrMalformedPayload, size, len(b)-HeaderSize)
	}
	if size > 0 {
		f.Payload = bytes.Clone(b[HeaderSize:])
	}
	return f, nil
}

func parseHeader(header []byte) (*Frame, int, error) {
	if header[0] != frameMagic[0] || header[1] != frameMagic[1] {
		return nil, 0, fmt.Errorf("%w: bad magic %q", ErrMalformedPayload, header[:2])
	}
	if header[2] != ProtocolVersion {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", ErrMalformedPayload, header[2])
	}

	t := MessageType(header[3])
	if t != MsgState && t != MsgSnapshot {
		return nil, 0, fmt.Errorf("%w: unknown message %s", ErrMalformedPayload, t)
	}

	size := binary.BigEndian.Uint32(header[4:8])
	if size > MaxPayloadSize {
		return nil, 0, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrMalformedPayload, size, MaxPayloadSize)
	}
	return &Frame{Type: t}, int(size), nil
}

// -- payloads

// StateMessage is a client's own state, tagged with its sequence number.
type StateMessage struct {
	Seq   uint32     `cbor:"seq"`
	Pos   [2]float64 `cbor:"pos"`
	Angle float64    `cbor:"angle"`
}

// PlayerEntry is one row of a snapshot.
type PlayerEntry struct {
	Pos   [2]float64 `cbor:"pos" json:"pos"`
	Angle float64    `cbor:"angle" json:"angle"`
}

// SnapshotMessage is the server's reply to a StateMessage. Ack echoes the
// sequence number being answered and Self is the receiver's own id.
type SnapshotMessage struct {
	Ack     uint32                 `cbor:"ack"`
	Self    string                 `cbor:"self"`
	Players map[string]PlayerEntry `cbor:"players"`
}

func EntryOf(st model.PlayerState) PlayerEntry {
	return PlayerEntry{
		Pos:   [2]float64{st.Position.X, st.Position.Y},
		Angle: st.Angle,
	}
}

func (e PlayerEntry) State() model.PlayerState {
	return model.PlayerState{
		Position: geom.Vector2{X: e.Pos[0], Y: e.Pos[1]},
		Angle:    e.Angle,
	}
}

func (e PlayerEntry) finite() bool {
	for _, v := range []float64{e.Pos[0], e.Pos[1], e.Angle} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func EncodeState(m StateMessage) (*Frame, error) {
	payload, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return &Frame{Type: MsgState, Payload: payload}, nil
}

// DecodeState parses a MsgState frame. Non-finite positions or angles are
// rejected along with anything that does not decode.
func DecodeState(f *Frame) (StateMessage, error) {
	var m StateMessage
	if f.Type != MsgState {
		return m, fmt.Errorf("%w: expected %s, got %s", ErrMalformedPayload, MsgState, f.Type)
	}
	if err := cbor.Unmarshal(f.Payload, &m); err != nil {
		return m, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	entry := PlayerEntry{Pos: m.Pos, Angle: m.Angle}
	if !entry.finite() {
		return m, fmt.Errorf("%w: non-finite state", ErrMalformedPayload)
	}
	m.Angle = model.NormalizeAngle(m.Angle)
	return m, nil
}

func EncodeSnapshot(m SnapshotMessage) (*Frame, error) {
	payload, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return &Frame{Type: MsgSnapshot, Payload: payload}, nil
}

func DecodeSnapshot(f *Frame) (SnapshotMessage, error) {
	var m SnapshotMessage
	if f.Type != MsgSnapshot {
		return m, fmt.Errorf("%w: expected %s, got %s", ErrMalformedPayload, MsgSnapshot, f.Type)
	}
	if err := cbor.Unmarshal(f.Payload, &m); err != nil {
		return m, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return m, nil
}
