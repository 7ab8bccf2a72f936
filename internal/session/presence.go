package session

import "sync"

// Presence tracks which usernames are joined to each room. It is ephemeral by
// design: the map mirrors live connections and is rebuilt from them after a
// restart. Room entries are created lazily and not pruned when empty.
type Presence struct {
	mu      sync.RWMutex
	members map[string][]string // roomID -> usernames, insertion-ordered, unique
}

func NewPresence() *Presence {
	return &Presence{members: make(map[string][]string)}
}

// Join adds username to the room's member set, idempotently, and returns the
// updated snapshot.
func (p *Presence) Join(roomID, username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range p.members[roomID] {
		if name == username {
			return snapshot(p.members[roomID])
		}
	}
	p.members[roomID] = append(p.members[roomID], username)
	return snapshot(p.members[roomID])
}

// Leave removes username if present; absent usernames and unknown rooms are
// a no-op. Returns the updated snapshot.
func (p *Presence) Leave(roomID, username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	current := p.members[roomID]
	for i, name := range current {
		if name == username {
			p.members[roomID] = append(current[:i:i], current[i+1:]...)
			break
		}
	}
	return snapshot(p.members[roomID])
}

// Snapshot returns the current member list; empty for unknown rooms.
func (p *Presence) Snapshot(roomID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return snapshot(p.members[roomID])
}

func snapshot(members []string) []string {
	out := make([]string, len(members))
	copy(out, members)
	return out
}
