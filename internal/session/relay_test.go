package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories"
)

func newRelayHub(t *testing.T, addr string) (*Hub, *Relay) {
	t.Helper()
	hub := NewHub(repositories.NewMemoryRoomStore(), repositories.NewMemoryUserStore(), zap.NewNop())
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	relay := NewRelay(rdb, zap.NewNop())
	hub.SetRelay(relay)
	relay.Start(hub)
	t.Cleanup(relay.Stop)
	return hub, relay
}

func TestRelayPropagatesJoinAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)

	hubA, _ := newRelayHub(t, mr.Addr())
	hubB, _ := newRelayHub(t, mr.Addr())

	// Give both subscribers a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	client, _ := hookedClient()
	hubA.JoinRoom(client, models.JoinRoomRequest{RoomID: "R1", Username: "b"})

	require.Eventually(t, func() bool {
		snap := hubB.Presence().Snapshot("R1")
		return len(snap) == 1 && snap[0] == "b"
	}, 2*time.Second, 10*time.Millisecond, "remote join not applied")
}

func TestRelayPropagatesLeave(t *testing.T) {
	mr := miniredis.RunT(t)

	hubA, _ := newRelayHub(t, mr.Addr())
	hubB, _ := newRelayHub(t, mr.Addr())
	time.Sleep(50 * time.Millisecond)

	client, _ := hookedClient()
	hubA.JoinRoom(client, models.JoinRoomRequest{RoomID: "R1", Username: "b"})
	require.Eventually(t, func() bool {
		return len(hubB.Presence().Snapshot("R1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hubA.LeaveRoom(client, models.LeaveRoomRequest{RoomID: "R1", Username: "b"})
	require.Eventually(t, func() bool {
		return len(hubB.Presence().Snapshot("R1")) == 0
	}, 2*time.Second, 10*time.Millisecond, "remote leave not applied")
}

func TestRelaySkipsOwnEvents(t *testing.T) {
	mr := miniredis.RunT(t)

	hub, relay := newRelayHub(t, mr.Addr())
	time.Sleep(50 * time.Millisecond)

	// An event published by this instance must not be applied locally.
	require.NoError(t, relay.Publish(context.Background(), PresenceJoin, "R1", "ghost"))

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, hub.Presence().Snapshot("R1"))
}

func TestRelayRemoteNoteBroadcastReachesLocalClients(t *testing.T) {
	mr := miniredis.RunT(t)

	hubA, _ := newRelayHub(t, mr.Addr())
	hubB, _ := newRelayHub(t, mr.Addr())
	time.Sleep(50 * time.Millisecond)

	// A local subscriber on hubB sees the member list converge when the join
	// happened on hubA.
	local, capture := hookedClient()
	hubB.JoinRoom(local, models.JoinRoomRequest{RoomID: "R1", Username: "c"})

	remote, _ := hookedClient()
	hubA.JoinRoom(remote, models.JoinRoomRequest{RoomID: "R1", Username: "b"})

	require.Eventually(t, func() bool {
		frame, ok := capture.last(models.EventActiveUsers)
		if !ok {
			return false
		}
		members, ok := frame.Data.([]string)
		return ok && len(members) == 2
	}, 2*time.Second, 10*time.Millisecond, "local client never saw converged member list")
}
