package netsync

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSolo(t *testing.T) {
	l := NewLink(nil, nil)

	for i := 0; i < 3; i++ {
		assert.Equal(t, LinkStatus_Solo, l.Step(context.Background(), stateAt(150, 150, 0)))
	}
	assert.Empty(t, l.Snapshot().Players)
	assert.Empty(t, l.Snapshot().Self)
	assert.Equal(t, "solo", l.Status().String())
}

func TestLinkStaleKeepsTable(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()
	fakeServer(t, serverSide, map[uint32]bool{2: true})

	c := NewClient(NewStreamConn(clientSide, 0), ClientOptions{ReadTimeout: 100 * time.Millisecond})
	defer c.Close()
	l := NewLink(c, nil)
	ctx := context.Background()

	require.Equal(t, LinkStatus_Online, l.Step(ctx, stateAt(110, 110, 0)))
	assert.Equal(t, LinkStatus_Stale, l.Step(ctx, stateAt(220, 220, 0)))
	assert.Equal(t, 110.0, l.Snapshot().Players["me"].Position.X)
	assert.Equal(t, LinkStatus_Online, l.Step(ctx, stateAt(330, 330, 0)))
}

func TestLinkOfflineForgetsPlayers(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	fakeServer(t, serverSide, nil)

	c := NewClient(NewStreamConn(clientSide, 0), ClientOptions{ReadTimeout: time.Second})
	l := NewLink(c, nil)
	ctx := context.Background()

	require.Equal(t, LinkStatus_Online, l.Step(ctx, stateAt(110, 110, 0)))
	require.Len(t, l.Snapshot().Players, 1)

	serverSide.Close()
	assert.Equal(t, LinkStatus_Offline, l.Step(ctx, stateAt(120, 120, 0)))
	assert.Empty(t, l.Snapshot().Players)
	assert.Equal(t, "me", l.Snapshot().Self)

	assert.Equal(t, LinkStatus_Offline, l.Step(ctx, stateAt(130, 130, 0)))
	assert.Empty(t, l.Snapshot().Players)
}
