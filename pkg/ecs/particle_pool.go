package ecs

import (
	"math/rand/v2"

	"github.com/decker502/particlefx/pkg/components"
	"github.com/decker502/particlefx/pkg/utils"
)

// ParticleID 是粒子在池中的槽位索引
type ParticleID int32

// Nil terminates every particle list.
const Nil ParticleID = -1

// ParticlePool 管理固定容量的粒子槽位
//
// The pool is the arena: slots are allocated once and recycled through an
// index free list. Active lists are threaded through the same next-index
// array, so a slot is linked into at most one list at a time, either the free
// list or its emitter's active list.
type ParticlePool struct {
	slots    []components.Particle
	next     []ParticleID
	active   []bool
	freeHead ParticleID
	freeLen  int
	rng      *rand.Rand
}

// NewParticlePool 创建一个容量为 capacity 的粒子池
// rng is shared with behaviors through List.Rand; nil selects a randomly seeded generator.
func NewParticlePool(capacity int, rng *rand.Rand) *ParticlePool {
	if capacity < 0 {
		capacity = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	p := &ParticlePool{
		slots:    make([]components.Particle, capacity),
		next:     make([]ParticleID, capacity),
		active:   make([]bool, capacity),
		freeHead: Nil,
		rng:      rng,
	}

	// 逆序压入，使第一次 Acquire 返回槽位 0
	for i := capacity - 1; i >= 0; i-- {
		p.next[i] = p.freeHead
		p.freeHead = ParticleID(i)
	}
	p.freeLen = capacity

	return p
}

// Cap returns the fixed capacity of the pool.
func (p *ParticlePool) Cap() int {
	return len(p.slots)
}

// FreeCount returns the number of free slots.
func (p *ParticlePool) FreeCount() int {
	return p.freeLen
}

// ActiveCount returns the number of acquired slots.
func (p *ParticlePool) ActiveCount() int {
	return len(p.slots) - p.freeLen
}

// Rand returns the generator shared by the pool's emitter and behaviors.
func (p *ParticlePool) Rand() *rand.Rand {
	return p.rng
}

// Acquire pops a free slot, resets its state and returns it unlinked.
// ok is false when the pool is exhausted.
func (p *ParticlePool) Acquire() (id ParticleID, ok bool) {
	if p.freeHead == Nil {
		return Nil, false
	}

	id = p.freeHead
	p.freeHead = p.next[id]
	p.freeLen--

	p.next[id] = Nil
	p.active[id] = true
	resetParticle(&p.slots[id])

	return id, true
}

// Release returns an active slot to the free list and clears its state.
// Releasing a free or out-of-range slot is a no-op and returns false.
func (p *ParticlePool) Release(id ParticleID) bool {
	if !p.valid(id) || !p.active[id] {
		return false
	}

	p.active[id] = false
	resetParticle(&p.slots[id])
	p.next[id] = p.freeHead
	p.freeHead = id
	p.freeLen++

	return true
}

// IsActive reports whether id is currently acquired.
func (p *ParticlePool) IsActive(id ParticleID) bool {
	return p.valid(id) && p.active[id]
}

// Get returns the particle stored in slot id.
func (p *ParticlePool) Get(id ParticleID) *components.Particle {
	return &p.slots[id]
}

// Next returns the slot linked after id, or Nil.
func (p *ParticlePool) Next(id ParticleID) ParticleID {
	return p.next[id]
}

// SetNext links next after id. Only the owning emitter edits links.
func (p *ParticlePool) SetNext(id, next ParticleID) {
	p.next[id] = next
}

// List returns a traversal handle over the chain starting at first and
// stopping before end (Nil walks to the end of the chain).
func (p *ParticlePool) List(first, end ParticleID) List {
	return List{pool: p, first: first, end: end}
}

func (p *ParticlePool) valid(id ParticleID) bool {
	return id >= 0 && int(id) < len(p.slots)
}

// resetParticle 清空粒子状态并写入默认值
func resetParticle(pt *components.Particle) {
	*pt = components.Particle{
		Scale: 1,
		Alpha: 1,
		Tint:  utils.White,
	}
}
