package memory

import (
	"maps"
	"sync"

	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// Identity is the in-memory identity resolution table. The map is replaced
// wholesale on each successful subscription cycle and never mutated in
// place, so a reader always observes a complete table.
type Identity struct {
	mu    sync.RWMutex
	users map[model.UserID]string
}

var _ interfaces.IdentityRepository = &Identity{}

// NewIdentity creates an empty identity table
func NewIdentity() *Identity {
	return &Identity{
		users: map[model.UserID]string{},
	}
}

// Replace swaps the current table for a copy of users. The input map is
// cloned so later mutation by the caller cannot leak into readers.
func (x *Identity) Replace(users map[model.UserID]string) {
	next := maps.Clone(users)
	if next == nil {
		next = map[model.UserID]string{}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.users = next
}

// Lookup resolves id to a principal name
func (x *Identity) Lookup(id model.UserID) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	name, ok := x.users[id]
	return name, ok
}

// Size returns the number of entries in the current table
func (x *Identity) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.users)
}
