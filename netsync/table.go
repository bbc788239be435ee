package netsync

import (
	"github.com/sasha-s/go-deadlock"

	"example.com/arena/model"
)

// Table is the authoritative set of connected players, keyed by connection id.
type Table struct {
	players map[string]model.PlayerState
	mutex   deadlock.RWMutex
}

func NewTable() *Table {
	return &Table{players: make(map[string]model.PlayerState)}
}

// Join adds a player at st, replacing any previous entry for id.
func (t *Table) Join(id string, st model.PlayerState) {
	t.mutex.Lock()
	t.players[id] = st
	t.mutex.Unlock()
}

// Update overwrites the entry of a joined player. It reports false, and
// changes nothing, when id is not in the table.
func (t *Table) Update(id string, st model.PlayerState) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.players[id]; !ok {
		return false
	}
	t.players[id] = st
	return true
}

// UpdateSnapshot performs Update and copies the table under the same lock, so
// the copy always contains the caller's own write.
func (t *Table) UpdateSnapshot(id string, st model.PlayerState) (map[string]model.PlayerState, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, ok := t.players[id]
	if ok {
		t.players[id] = st
	}
	return t.copyLocked(), ok
}

func (t *Table) Remove(id string) {
	t.mutex.Lock()
	delete(t.players, id)
	t.mutex.Unlock()
}

func (t *Table) Get(id string) (model.PlayerState, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	st, ok := t.players[id]
	return st, ok
}

func (t *Table) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return len(t.players)
}

// Snapshot returns a copy of the table.
func (t *Table) Snapshot() map[string]model.PlayerState {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.copyLocked()
}

func (t *Table) copyLocked() map[string]model.PlayerState {
	out := make(map[string]model.PlayerState, len(t.players))
	for id, st := range t.players {
		out[id] = st
	}
	return out
}
