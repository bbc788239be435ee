package netsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"example.com/arena/model"
)

// Snapshot is the client's view of the player table after a round trip.
type Snapshot struct {
	Ack     uint32
	Self    string
	Players map[string]model.PlayerState
}

type ClientOptions struct {
	ReadTimeout time.Duration
	Logger      *zap.SugaredLogger
}

// Client exchanges the local player's state for the server's table once per
// tick. Inbound frames are decoded by a background reader so a timed out round
// trip never leaves a partial frame on the stream.
type Client struct {
	conn    Conn
	timeout time.Duration
	log     *zap.SugaredLogger

	seq  uint32
	last Snapshot

	inbox     chan Snapshot
	done      chan struct{}
	readErr   error
	closing   chan struct{}
	closeOnce sync.Once
}

func NewClient(conn Conn, opts ClientOptions) *Client {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	c := &Client{
		conn:    conn,
		timeout: opts.ReadTimeout,
		log:     opts.Logger,
		inbox:   make(chan Snapshot, 8),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Dial connects to a tcp:// or ws:// address.
func Dial(ctx context.Context, address string, dialTimeout time.Duration, opts ClientOptions) (*Client, error) {
	conn, err := DialConn(ctx, address, dialTimeout, opts.ReadTimeout*4)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, opts), nil
}

// Exchange sends st and waits for the matching reply. When no reply arrives
// within the read timeout it returns the last snapshot and ErrStaleState;
// once the connection is gone it returns the last snapshot and
// ErrConnectionClosed. The returned snapshot is the caller's to keep.
func (c *Client) Exchange(ctx context.Context, st model.PlayerState) (Snapshot, error) {
	c.seq++
	seq := c.seq

	frame, err := EncodeState(StateMessage{
		Seq:   seq,
		Pos:   [2]float64{st.Position.X, st.Position.Y},
		Angle: st.Angle,
	})
	if err != nil {
		return c.Last(), err
	}

	select {
	case <-c.done:
		return c.Last(), c.readErr
	default:
	}
	if err := c.conn.WriteFrame(frame); err != nil {
		return c.Last(), fmt.Errorf("send state: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	for {
		select {
		case snap := <-c.inbox:
			c.last = snap
			if snap.Ack >= seq {
				return c.Last(), nil
			}
		case <-c.done:
			return c.Last(), c.readErr
		case <-timer.C:
			c.log.Debugw("round trip timed out", "seq", seq, "last_ack", c.last.Ack)
			return c.Last(), ErrStaleState
		case <-ctx.Done():
			return c.Last(), ctx.Err()
		}
	}
}

// Last returns a deep copy of the most recent snapshot.
func (c *Client) Last() Snapshot {
	var out Snapshot
	if err := copier.CopyWithOption(&out, &c.last, copier.Option{DeepCopy: true}); err != nil {
		c.log.Warnw("copy snapshot failed", "err", err)
	}
	return out
}

// Self is the connection id the server assigned to this client, empty until
// the first reply.
func (c *Client) Self() string {
	return c.last.Self
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closing)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		frame, err := c.conn.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrConnectionClosed) {
				c.readErr = ErrConnectionClosed
			} else {
				c.readErr = fmt.Errorf("%w: %v", ErrConnectionClosed, err)
			}
			return
		}

		msg, err := DecodeSnapshot(frame)
		if err != nil {
			c.log.Warnw("bad snapshot from server", "err", err)
			c.readErr = err
			c.conn.Close()
			return
		}

		snap := Snapshot{
			Ack:     msg.Ack,
			Self:    msg.Self,
			Players: make(map[string]model.PlayerState, len(msg.Players)),
		}
		for id, entry := range msg.Players {
			snap.Players[id] = entry.State()
		}

		select {
		case c.inbox <- snap:
		case <-c.closing:
			return
		}
	}
}
