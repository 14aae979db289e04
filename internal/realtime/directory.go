package realtime

import "sync"

// Presence maps a user to their single live connection.
type Presence interface {
	Lookup(userID string) (Conn, bool)
	// Upsert makes c the user's connection and returns the one it replaced.
	Upsert(userID string, c Conn) (prev Conn)
	// RemoveIfMatches deletes the entry only while c is still current.
	RemoveIfMatches(userID string, c Conn) bool
}

type Directory struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewDirectory() *Directory {
	return &Directory{conns: make(map[string]Conn)}
}

func (d *Directory) Lookup(userID string) (Conn, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.conns[userID]
	return c, ok
}

func (d *Directory) Upsert(userID string, c Conn) Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.conns[userID]
	d.conns[userID] = c
	return prev
}

func (d *Directory) RemoveIfMatches(userID string, c Conn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cur, ok := d.conns[userID]; ok && cur == c {
		delete(d.conns, userID)
		return true
	}
	return false
}

// Len returns the number of online users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.conns)
}
