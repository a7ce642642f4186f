package services

import (
	"context"
	"testing"
	"time"

	"machmon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) *StreamHub {
	t.Helper()
	hub := NewStreamHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func TestHubBroadcastsSnapshotsToClients(t *testing.T) {
	hub := runHub(t)

	client := &StreamClient{ID: "client-1", Send: make(chan StreamMessage, 4)}
	hub.Register(client)

	hub.PublishSnapshot(&models.Snapshot{
		Timestamp: time.Now(),
		CPU:       &models.CPUInfo{Percent: 42.5},
	})

	select {
	case msg := <-client.Send:
		assert.Equal(t, "snapshot", msg.Type)
		snap, ok := msg.Data.(*models.Snapshot)
		require.True(t, ok)
		assert.Equal(t, 42.5, snap.CPU.Percent)
	case <-time.After(time.Second):
		t.Fatal("registered client never received the snapshot")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := runHub(t)

	client := &StreamClient{ID: "client-1", Send: make(chan StreamMessage, 4)}
	hub.Register(client)
	hub.Unregister("client-1")

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "send channel must be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestPublishSnapshotNeverBlocks(t *testing.T) {
	// No Run goroutine: the broadcast channel fills up and publishes
	// must still return. The monitoring loop cannot stall on the stream.
	hub := NewStreamHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.PublishSnapshot(&models.Snapshot{Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishSnapshot blocked on a saturated hub")
	}
}

func TestHubShutdownClosesAllClients(t *testing.T) {
	hub := NewStreamHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a := &StreamClient{ID: "a", Send: make(chan StreamMessage, 1)}
	b := &StreamClient{ID: "b", Send: make(chan StreamMessage, 1)}
	hub.Register(a)
	hub.Register(b)

	cancel()
	<-done

	for _, client := range []*StreamClient{a, b} {
		select {
		case _, open := <-client.Send:
			assert.False(t, open)
		default:
			t.Fatalf("client %s send channel left open after shutdown", client.ID)
		}
	}
}
