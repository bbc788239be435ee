package netsync

import (
	"errors"
	"io"
	"net"

	"github.com/gorilla/websocket"
)

var (
	// ErrConnectionClosed is returned once the peer has gone away.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrMalformedPayload is returned for frames or payloads that do not follow
	// the protocol. The connection that produced one is dropped.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrStaleState is returned by Client.Exchange when the reply did not arrive
	// within the read timeout. The returned snapshot is the last one received.
	ErrStaleState = errors.New("stale state")
)

// closedError maps the ways a stream can end onto ErrConnectionClosed and
// passes everything else through.
func closedError(err error) error {
	if err == nil || errors.Is(err, ErrConnectionClosed) || errors.Is(err, ErrMalformedPayload) {
		return err
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) {
		return ErrConnectionClosed
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return ErrConnectionClosed
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) && !netErr.Timeout() {
		return ErrConnectionClosed
	}
	return err
}
