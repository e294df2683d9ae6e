package systems

import (
	"log"
	"slices"

	"github.com/google/uuid"

	"github.com/decker502/particlefx/pkg/components"
)

// ParticleSystem manages a set of emitters and advances them together.
//
// Emitters are updated in the order they were added, which is also the order
// Each visits their particles, so later emitters draw on top.
// Emitters that destroy themselves (PlayOnceAndDestroy) are dropped
// automatically after the frame in which they completed.
type ParticleSystem struct {
	emitters map[uuid.UUID]*Emitter
	order    []uuid.UUID
}

// NewParticleSystem creates an empty ParticleSystem.
func NewParticleSystem() *ParticleSystem {
	return &ParticleSystem{
		emitters: make(map[uuid.UUID]*Emitter),
	}
}

// Add registers an emitter and returns its handle.
func (ps *ParticleSystem) Add(e *Emitter) uuid.UUID {
	id := uuid.New()
	ps.emitters[id] = e
	ps.order = append(ps.order, id)
	return id
}

// Get returns the emitter registered under id.
func (ps *ParticleSystem) Get(id uuid.UUID) (*Emitter, bool) {
	e, ok := ps.emitters[id]
	return e, ok
}

// Remove destroys and unregisters the emitter. It reports whether id was known.
func (ps *ParticleSystem) Remove(id uuid.UUID) bool {
	e, ok := ps.emitters[id]
	if !ok {
		return false
	}
	e.Destroy()
	ps.drop(id)
	return true
}

// Len returns the number of registered emitters.
func (ps *ParticleSystem) Len() int {
	return len(ps.order)
}

// IDs returns the emitter handles in update order.
func (ps *ParticleSystem) IDs() []uuid.UUID {
	return append([]uuid.UUID(nil), ps.order...)
}

// Update advances every emitter by dt seconds.
func (ps *ParticleSystem) Update(dt float64) {
	var finished []uuid.UUID
	// 完成回调可能调用 Remove，遍历快照
	for _, id := range slices.Clone(ps.order) {
		e, ok := ps.emitters[id]
		if !ok {
			continue
		}
		e.Update(dt)
		if e.Destroyed() {
			finished = append(finished, id)
		}
	}

	for _, id := range finished {
		if _, ok := ps.emitters[id]; !ok {
			continue
		}
		ps.drop(id)
		log.Printf("[ParticleSystem] 发射器 %s 已完成，移除", id)
	}
}

// ParticleCount returns the number of active particles across all emitters.
func (ps *ParticleSystem) ParticleCount() int {
	n := 0
	for _, e := range ps.emitters {
		n += e.ParticleCount()
	}
	return n
}

// Each visits every active particle, emitter by emitter in update order.
func (ps *ParticleSystem) Each(fn func(p *components.Particle)) {
	for _, id := range ps.order {
		ps.emitters[id].Each(fn)
	}
}

// Clear destroys every emitter.
func (ps *ParticleSystem) Clear() {
	for _, e := range ps.emitters {
		e.Destroy()
	}
	if len(ps.order) > 0 {
		log.Printf("[ParticleSystem] 清空 %d 个发射器", len(ps.order))
	}
	ps.emitters = make(map[uuid.UUID]*Emitter)
	ps.order = nil
}

func (ps *ParticleSystem) drop(id uuid.UUID) {
	delete(ps.emitters, id)
	for i, o := range ps.order {
		if o == id {
			ps.order = append(ps.order[:i], ps.order[i+1:]...)
			return
		}
	}
}
