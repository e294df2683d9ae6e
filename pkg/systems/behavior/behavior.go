// Package behavior defines the per-frame units of particle mutation.
//
// A behavior visits whole particle lists. It may implement Initializer (run
// once on every freshly spawned batch) and/or Updater (run once per frame over
// every active particle). Behaviors only write particle fields; linking and
// unlinking particles belongs to the emitter.
package behavior

import (
	"slices"

	"github.com/decker502/particlefx/pkg/ecs"
)

// Order is the stage key of a behavior. Lower orders run first; equal orders
// keep registration order.
type Order int

const (
	// Spawn stage places particles (spawn shapes).
	Spawn Order = 0
	// Normal stage is where most behaviors run.
	Normal Order = 2
	// Late stage reads state left by Normal behaviors (movement reads rotation).
	Late Order = 5
)

// Behavior is implemented by every behavior kind.
type Behavior interface {
	Order() Order
}

// Initializer runs when a batch of particles is spawned.
// list holds only the particles of that batch.
type Initializer interface {
	Behavior
	InitParticles(list ecs.List)
}

// Updater runs once per frame over the whole active list.
type Updater interface {
	Behavior
	UpdateParticles(list ecs.List, deltaSec float64)
}

// Split separates behaviors into initializers and updaters, each stably sorted
// by Order. A behavior implementing both appears in both slices.
func Split(behaviors []Behavior) ([]Initializer, []Updater) {
	sorted := slices.Clone(behaviors)
	slices.SortStableFunc(sorted, func(a, b Behavior) int {
		return int(a.Order()) - int(b.Order())
	})

	var inits []Initializer
	var updates []Updater
	for _, b := range sorted {
		if i, ok := b.(Initializer); ok {
			inits = append(inits, i)
		}
		if u, ok := b.(Updater); ok {
			updates = append(updates, u)
		}
	}
	return inits, updates
}
