package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const relayChannel = "noteroom:presence"

const (
	PresenceJoin  = "join"
	PresenceLeave = "leave"
)

// PresenceEvent mirrors a local join/leave to sibling service instances over
// redis pub/sub, so presence snapshots converge when connections for the same
// room land on different instances.
type PresenceEvent struct {
	Type       string    `json:"type"`
	RoomID     string    `json:"roomId"`
	Username   string    `json:"username"`
	InstanceID string    `json:"instanceId"`
	Timestamp  time.Time `json:"timestamp"`
}

type Relay struct {
	rdb        *redis.Client
	instanceID string
	log        *zap.Logger
	cancel     context.CancelFunc
}

func NewRelay(rdb *redis.Client, log *zap.Logger) *Relay {
	return &Relay{
		rdb:        rdb,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

func (r *Relay) InstanceID() string { return r.instanceID }

func (r *Relay) Publish(ctx context.Context, typ, roomID, username string) error {
	evt := PresenceEvent{
		Type:       typ,
		RoomID:     roomID,
		Username:   username,
		InstanceID: r.instanceID,
		Timestamp:  time.Now().UTC(),
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, relayChannel, data).Err()
}

// Start subscribes to the relay channel and feeds remote events into the hub
// until Stop is called. Events published by this instance are skipped.
func (r *Relay) Start(h *Hub) {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.run(ctx, h)
}

func (r *Relay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Relay) run(ctx context.Context, h *Hub) {
	pubsub := r.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	r.log.Info("presence relay subscribed", zap.String("instance", r.instanceID))

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt PresenceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				r.log.Warn("presence relay: bad payload", zap.Error(err))
				continue
			}
			if evt.InstanceID == r.instanceID {
				continue
			}
			h.applyRemotePresence(evt)
		}
	}
}
