package netsync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"example.com/arena/model"
)

// LinkStatus describes where the player table held by a Link came from.
type LinkStatus int

const (
	LinkStatus_Solo LinkStatus = iota
	LinkStatus_Online
	LinkStatus_Stale
	LinkStatus_Offline
)

func (s LinkStatus) String() string {
	switch s {
	case LinkStatus_Solo:
		return "solo"
	case LinkStatus_Online:
		return "online"
	case LinkStatus_Stale:
		return "waiting for server"
	default:
		return "offline"
	}
}

// Link runs one Exchange per game tick and keeps the table to draw. A Link
// without a client plays solo. Once its connection is lost the Link stays
// offline and forgets every remote player.
type Link struct {
	client   *Client
	log      *zap.SugaredLogger
	status   LinkStatus
	snapshot Snapshot
}

func NewLink(client *Client, log *zap.SugaredLogger) *Link {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	l := &Link{client: client, log: log, status: LinkStatus_Solo}
	if client != nil {
		l.status = LinkStatus_Online
	}
	return l
}

func (l *Link) Status() LinkStatus { return l.status }

// Snapshot is the table from the latest Step. Its Players map must not be
// modified.
func (l *Link) Snapshot() Snapshot { return l.snapshot }

// Step trades st for the latest player table.
func (l *Link) Step(ctx context.Context, st model.PlayerState) LinkStatus {
	if l.status == LinkStatus_Solo || l.status == LinkStatus_Offline {
		return l.status
	}

	snap, err := l.client.Exchange(ctx, st)
	switch {
	case err == nil:
		l.status = LinkStatus_Online
	case errors.Is(err, ErrStaleState):
		l.status = LinkStatus_Stale
	case errors.Is(err, ErrConnectionClosed):
		l.log.Warnw("lost connection to server", "err", err)
		l.goOffline()
		return l.status
	default:
		l.log.Errorw("sync failed", "err", err)
		l.goOffline()
		return l.status
	}

	l.snapshot = snap
	return l.status
}

func (l *Link) goOffline() {
	l.status = LinkStatus_Offline
	l.snapshot = Snapshot{Self: l.snapshot.Self}
	if err := l.client.Close(); err != nil {
		l.log.Debugw("close failed", "err", err)
	}
}
