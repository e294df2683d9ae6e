package behavior

import (
	"math/rand/v2"

	"github.com/decker502/particlefx/pkg/components"
	"github.com/decker502/particlefx/pkg/ecs"
)

// countingSource counts random draws.
type countingSource struct {
	draws int
	src   rand.Source
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

// newTestBatch acquires n linked particles and returns the list over them.
func newTestBatch(n int, seed uint64) (*ecs.ParticlePool, ecs.List, *countingSource) {
	src := &countingSource{src: rand.NewPCG(seed, seed+1)}
	pool := ecs.NewParticlePool(n, rand.New(src))

	first, prev := ecs.Nil, ecs.Nil
	for i := 0; i < n; i++ {
		id, _ := pool.Acquire()
		if first == ecs.Nil {
			first = id
		} else {
			pool.SetNext(prev, id)
		}
		prev = id
	}
	return pool, pool.List(first, ecs.Nil), src
}

func collect(list ecs.List) []*components.Particle {
	var out []*components.Particle
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		out = append(out, list.Get(id))
	}
	return out
}

// runInit runs the init phase the way the emitter does: stable order split.
func runInit(list ecs.List, behaviors ...Behavior) {
	inits, _ := Split(behaviors)
	for _, b := range inits {
		b.InitParticles(list)
	}
}

func float64Ptr(v float64) *float64 { return &v }
