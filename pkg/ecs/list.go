package ecs

import (
	"math/rand/v2"

	"github.com/decker502/particlefx/pkg/components"
)

// List is a read-and-mutate traversal handle over a chain of active particles.
//
// Behaviors receive a List for the duration of one call and walk it with
//
//	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
//		p := list.Get(id)
//	}
//
// A List never changes the chain itself and must not be kept across frames.
type List struct {
	pool  *ParticlePool
	first ParticleID
	end   ParticleID
}

// First returns the first particle of the list, or Nil when the list is empty.
func (l List) First() ParticleID {
	if l.pool == nil || l.first == l.end {
		return Nil
	}
	return l.first
}

// Next returns the particle after id, or Nil at the end of the list.
func (l List) Next(id ParticleID) ParticleID {
	n := l.pool.next[id]
	if n == l.end {
		return Nil
	}
	return n
}

// Get returns the particle record for id.
func (l List) Get(id ParticleID) *components.Particle {
	return &l.pool.slots[id]
}

// Empty reports whether the list has no particles.
func (l List) Empty() bool {
	return l.First() == Nil
}

// Len walks the list and counts its particles.
func (l List) Len() int {
	n := 0
	for id := l.First(); id != Nil; id = l.Next(id) {
		n++
	}
	return n
}

// Rand returns the generator behaviors draw from while visiting this list.
func (l List) Rand() *rand.Rand {
	if l.pool == nil {
		return nil
	}
	return l.pool.rng
}
