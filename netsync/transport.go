package netsync

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn carries whole frames in both directions. Reads are used by one
// goroutine; writes are safe from any.
type Conn interface {
	ReadFrame() (*Frame, error)
	WriteFrame(f *Frame) error
	RemoteAddr() string
	Close() error
}

// -- stream transport

type streamConn struct {
	conn         net.Conn
	reader       *bufio.Reader
	writeTimeout time.Duration
	writeMu      sync.Mutex
}

// NewStreamConn frames messages over a byte stream such as TCP.
func NewStreamConn(conn net.Conn, writeTimeout time.Duration) Conn {
	return &streamConn{
		conn:         conn,
		reader:       bufio.NewReaderSize(conn, 16*1024),
		writeTimeout: writeTimeout,
	}
}

func (c *streamConn) ReadFrame() (*Frame, error) {
	f, err := Decode(c.reader)
	return f, closedError(err)
}

func (c *streamConn) WriteFrame(f *Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return closedError(f.Encode(c.conn))
}

func (c *streamConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *streamConn) Close() error {
	return c.conn.Close()
}

// -- websocket transport

type wsConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	writeMu      sync.Mutex
}

// NewWebSocketConn carries one frame per binary websocket message.
func NewWebSocketConn(ws *websocket.Conn, writeTimeout time.Duration) Conn {
	ws.SetReadLimit(HeaderSize + MaxPayloadSize)
	return &wsConn{ws: ws, writeTimeout: writeTimeout}
}

func (c *wsConn) ReadFrame() (*Frame, error) {
	msgType, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, closedError(err)
	}
	if msgType != websocket.BinaryMessage {
		return nil, fmt.Errorf("%w: websocket message type %d", ErrMalformedPayload, msgType)
	}
	return DecodeBytes(data)
}

func (c *wsConn) WriteFrame(f *Frame) error {
	buf, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return closedError(c.ws.WriteMessage(websocket.BinaryMessage, buf))
}

func (c *wsConn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

func (c *wsConn) Close() error {
	c.writeMu.Lock()
	c.ws.SetWriteDeadline(time.Now().Add(time.Second))
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.ws.Close()
}

// DefaultWebSocketPath is served and dialed when a ws:// address has no path.
const DefaultWebSocketPath = "/ws"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DialConn connects to a tcp:// or ws:// address. A ws:// address without a
// path dials DefaultWebSocketPath.
func DialConn(ctx context.Context, address string, timeout, writeTimeout time.Duration) (Conn, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parse address %q: %w", address, err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	switch u.Scheme {
	case "tcp":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", address, err)
		}
		return NewStreamConn(conn, writeTimeout), nil
	case "ws":
		if u.Path == "" || u.Path == "/" {
			u.Path = DefaultWebSocketPath
		}
		dialer := websocket.Dialer{HandshakeTimeout: timeout}
		ws, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", address, err)
		}
		return NewWebSocketConn(ws, writeTimeout), nil
	default:
		return nil, fmt.Errorf("dial %s: unsupported scheme %q", address, u.Scheme)
	}
}
