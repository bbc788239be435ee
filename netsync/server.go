package netsync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harbdog/raycaster-go/geom"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"example.com/arena/model"
)

// ConnState is the lifecycle state of one server-side connection.
type ConnState int

const (
	ConnState_Connected ConnState = iota
	ConnState_AwaitingMessage
	ConnState_Updating
	ConnState_Replying
	ConnState_Closed
)

func (s ConnState) String() string {
	switch s {
	case ConnState_Connected:
		return "connected"
	case ConnState_AwaitingMessage:
		return "awaiting"
	case ConnState_Updating:
		return "updating"
	case ConnState_Replying:
		return "replying"
	case ConnState_Closed:
		return "closed"
	default:
		return "unknown"
	}
}

type ServerOptions struct {
	Spawn model.PlayerState
	// RateLimit is messages per second per connection, RateBurst the bucket size.
	RateLimit    float64
	RateBurst    int
	WriteTimeout time.Duration
	Logger       *zap.SugaredLogger
	// OnState, when set, observes every connection state transition.
	OnState func(id string, state ConnState)
}

// Server keeps the player table and answers every state message with a
// snapshot sent to the requesting connection only.
type Server struct {
	opts    ServerOptions
	log     *zap.SugaredLogger
	table   *Table
	metrics *Metrics

	conns  map[string]Conn
	closed bool
	mutex  deadlock.Mutex
	wg     sync.WaitGroup
}

func NewServer(opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = float64(rate.Inf)
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	return &Server{
		opts:    opts,
		log:     opts.Logger,
		table:   NewTable(),
		metrics: &Metrics{},
		conns:   make(map[string]Conn),
	}
}

// DefaultSpawn is where every player starts.
func DefaultSpawn(x, y float64) model.PlayerState {
	return model.PlayerState{Position: geom.Vector2{X: x, Y: y}}
}

func (s *Server) Table() *Table     { return s.table }
func (s *Server) Metrics() *Metrics { return s.metrics }

// Serve accepts stream connections from ln until ctx is cancelled, then closes
// every live connection and waits for their handlers.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		s.closeAll()
	})
	defer stop()

	s.log.Infow("listening", "addr", ln.Addr().String(), "transport", "tcp")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return err
			}
			s.log.Warnw("accept failed", "err", err)
			continue
		}

		if !s.enter() {
			conn.Close()
			continue
		}
		go func() {
			defer s.wg.Done()
			s.HandleConn(ctx, NewStreamConn(conn, s.opts.WriteTimeout))
		}()
	}
}

// WebSocketHandler upgrades requests and serves each as a connection.
func (s *Server) WebSocketHandler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.enter() {
			http.Error(w, "server shutting down", http.StatusServiceUnavailable)
			return
		}
		defer s.wg.Done()

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		s.HandleConn(ctx, NewWebSocketConn(ws, s.opts.WriteTimeout))
	}
}

// ServeWebSocket serves the websocket transport on ln at path, or at
// DefaultWebSocketPath when path is empty, until ctx is cancelled.
func (s *Server) ServeWebSocket(ctx context.Context, ln net.Listener, path string) error {
	if path == "" || path == "/" {
		path = DefaultWebSocketPath
	}
	r := chi.NewRouter()
	r.Get(path, s.WebSocketHandler(ctx))

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	stop := context.AfterFunc(ctx, func() {
		s.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	s.log.Infow("listening", "addr", ln.Addr().String(), "transport", "ws", "path", path)
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		s.wg.Wait()
		return nil
	}
	return err
}

// HandleConn runs one connection until it closes, fails or sends a malformed
// message. The connection's table entry exists exactly while it runs.
func (s *Server) HandleConn(ctx context.Context, conn Conn) {
	id := uuid.New().String()
	log := s.log.With("id", id, "remote", conn.RemoteAddr())

	s.table.Join(id, s.opts.Spawn)
	tracked := s.track(id, conn)
	s.metrics.IncAccepted()
	s.setState(id, ConnState_Connected)
	log.Infow("player joined", "players", s.table.Len())

	defer func() {
		s.untrack(id)
		s.table.Remove(id)
		conn.Close()
		s.metrics.IncClosed()
		s.setState(id, ConnState_Closed)
		log.Infow("player left", "players", s.table.Len())
	}()

	// closeAll may already have run
	if !tracked || ctx.Err() != nil {
		return
	}

	limiter := rate.NewLimiter(rate.Limit(s.opts.RateLimit), s.opts.RateBurst)

	for {
		s.setState(id, ConnState_AwaitingMessage)
		frame, err := conn.ReadFrame()
		if err != nil {
			s.logReadError(log, err)
			return
		}
		s.metrics.AddMessageIn(len(frame.Payload))

		if !limiter.Allow() {
			s.metrics.IncThrottled()
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		s.setState(id, ConnState_Updating)
		msg, err := DecodeState(frame)
		if err != nil {
			s.logReadError(log, err)
			return
		}

		st := model.PlayerState{
			Position: geom.Vector2{X: msg.Pos[0], Y: msg.Pos[1]},
			Angle:    msg.Angle,
		}
		players, ok := s.table.UpdateSnapshot(id, st)
		if !ok {
			return
		}

		s.setState(id, ConnState_Replying)
		reply, err := EncodeSnapshot(snapshotMessage(msg.Seq, id, players))
		if err != nil {
			log.Errorw("encode snapshot failed", "err", err)
			return
		}
		if err := conn.WriteFrame(reply); err != nil {
			s.logReadError(log, err)
			return
		}
		s.metrics.AddReplyOut(len(reply.Payload))
	}
}

func snapshotMessage(ack uint32, self string, players map[string]model.PlayerState) SnapshotMessage {
	m := SnapshotMessage{
		Ack:     ack,
		Self:    self,
		Players: make(map[string]PlayerEntry, len(players)),
	}
	for id, st := range players {
		m.Players[id] = EntryOf(st)
	}
	return m
}

func (s *Server) logReadError(log *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, ErrConnectionClosed):
		log.Debugw("connection closed")
	case errors.Is(err, ErrMalformedPayload):
		s.metrics.IncMalformed()
		log.Warnw("dropping connection", "err", err)
	default:
		log.Warnw("connection failed", "err", err)
	}
}

func (s *Server) setState(id string, state ConnState) {
	if s.opts.OnState != nil {
		s.opts.OnState(id, state)
	}
}

// enter registers a connection handler, false once the server has shut down.
// Handlers that entered are waited for before Serve returns.
func (s *Server) enter() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *Server) track(id string, conn Conn) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return false
	}
	s.conns[id] = conn
	return true
}

func (s *Server) untrack(id string) {
	s.mutex.Lock()
	delete(s.conns, id)
	s.mutex.Unlock()
}

// closeAll closes every live connection and refuses new ones; their handlers
// then remove the entries.
func (s *Server) closeAll() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
	for id, conn := range s.conns {
		if err := conn.Close(); err != nil {
			s.log.Debugw("close failed", "id", id, "err", err)
		}
	}
}

// ListenAndServe binds address (tcp:// or ws://host:port/path) and serves it
// until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, scheme, hostport, path string) error {
	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		return fmt.Errorf("listen %s: %w", hostport, err)
	}

	switch scheme {
	case "ws":
		return s.ServeWebSocket(ctx, ln, path)
	default:
		return s.Serve(ctx, ln)
	}
}
