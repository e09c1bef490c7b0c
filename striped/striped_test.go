package striped

import (
	"sync"
	"testing"
)

func TestGetIsStableForSameName(t *testing.T) {
	l := New()
	a := l.Get("reviews")
	b := l.Get("reviews")
	if a != b {
		t.Error("Get(\"reviews\") returned different mutexes across calls")
	}
}

func TestGetDistributesAcrossStripes(t *testing.T) {
	l := New()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	distinct := make(map[*sync.Mutex]struct{})
	for _, n := range names {
		distinct[l.Get(n)] = struct{}{}
	}

	if len(distinct) < 2 {
		t.Errorf("Get across %d distinct names mapped to only %d stripes", len(names), len(distinct))
	}
}

func TestGetLocksIndependently(t *testing.T) {
	l := New()

	muA := l.Get("index-a")
	muA.Lock()
	defer muA.Unlock()

	// A name that hashes to a different stripe must not block.
	found := false
	for _, name := range []string{"x1", "x2", "x3", "x4", "x5", "x6", "x7", "x8", "x9", "x10"} {
		muB := l.Get(name)
		if muB != muA {
			if muB.TryLock() {
				muB.Unlock()
				found = true
				break
			}
		}
	}
	if !found {
		t.Skip("no probed name landed on a distinct, unlocked stripe")
	}
}
