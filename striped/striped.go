// Package striped implements a fixed-size array of mutexes indexed by a
// hash of a logical name, so that index() and delete() calls against
// different index names can proceed in parallel while calls against the
// same name are serialized, matching spec.md §5. The stripe count (10)
// and choice of hash are arbitrary per Design Note "Striped locks vs.
// single mutex": plain hash/fnv is enough for arithmetic this small and
// needs no ecosystem dependency.
package striped

import (
	"hash/fnv"
	"sync"
)

const stripeCount = 10

// Locks is a shared array of mutexes indexed by name. One Locks value is
// shared process-wide across every index opened from the same engine.
type Locks struct {
	mus [stripeCount]sync.Mutex
}

// New returns a freshly initialized Locks.
func New() *Locks {
	return &Locks{}
}

// Get returns the mutex responsible for name. The same name always maps
// to the same mutex; different names may collide onto the same stripe.
func (l *Locks) Get(name string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return &l.mus[h.Sum32()%stripeCount]
}
