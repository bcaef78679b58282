// Package index implements the process-local person cache and the nickname
// existence set. Both are best-effort duplicates of database state: entries
// are added opportunistically on writes and cache-miss reads and are never
// evicted for the lifetime of the process. The database remains the sole
// source of truth; in particular the nickname set may produce false
// negatives (nickname exists in the DB but not here), never false positives.
package index

import (
	"sync"

	"github.com/akarpovs/personapi/internal/server/models"
)

type Index struct {
	mu        sync.RWMutex
	persons   map[string]*models.Person
	nicknames map[string]struct{}
}

func New() *Index {
	return &Index{
		persons:   make(map[string]*models.Person),
		nicknames: make(map[string]struct{}),
	}
}

// Get returns the cached person for id, if any.
func (i *Index) Get(id string) (*models.Person, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p, ok := i.persons[id]
	return p, ok
}

// Put caches a person under id. Persons are immutable, so a concurrent Put
// for the same id can only ever store an equivalent value.
func (i *Index) Put(id string, p *models.Person) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.persons[id] = p
}

// ContainsNickname reports whether the nickname has been seen by this
// process. A false result does not mean the nickname is free.
func (i *Index) ContainsNickname(nickname string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.nicknames[nickname]
	return ok
}

func (i *Index) AddNickname(nickname string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.nicknames[nickname] = struct{}{}
}
