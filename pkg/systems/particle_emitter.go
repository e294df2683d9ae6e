package systems

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/decker502/particlefx/internal/particle"
	"github.com/decker502/particlefx/pkg/components"
	"github.com/decker502/particlefx/pkg/ecs"
	"github.com/decker502/particlefx/pkg/systems/behavior"
	"github.com/decker502/particlefx/pkg/utils"
)

// particle_emitter.go - 粒子发射器
//
// Emitter 拥有固定容量的粒子池和活跃链表：
//  - 每帧先老化并回收过期粒子，再按顺序运行 updater
//  - 按 Frequency 发射批次，新批次先运行 initializer 再变换到世界坐标
//  - 发射停止且粒子耗尽时触发一次完成回调

// DefaultMaxParticles 是未指定 MaxParticles 时的池容量
const DefaultMaxParticles = 1000

// EmitterSettings 描述发射器的全部数值参数（已解析完毕，无缺省字段）
type EmitterSettings struct {
	MaxParticles int // pool capacity; <= 0 selects DefaultMaxParticles

	LifetimeMin float64 // seconds
	LifetimeMax float64 // seconds

	Frequency        float64 // seconds between waves, must be > 0
	SpawnChance      float64 // per-particle chance in a wave; >= 1 always spawns
	ParticlesPerWave int     // <= 0 means 1
	EmitterLifetime  float64 // seconds of emission; <= 0 emits until stopped

	SpawnX, SpawnY float64 // spawn offset from the owner position
	Rotation       float64 // degrees
	AddAtBack      bool    // prepend new batches instead of appending

	// Ease remaps AgePercent before behaviors read it. nil is linear.
	Ease utils.EaseFunc
}

// DefaultEmitterSettings returns settings for a continuous one-second emitter.
func DefaultEmitterSettings() EmitterSettings {
	return EmitterSettings{
		MaxParticles:     DefaultMaxParticles,
		LifetimeMin:      1,
		LifetimeMax:      1,
		Frequency:        0.1,
		SpawnChance:      1,
		ParticlesPerWave: 1,
	}
}

// Validate reports settings the emitter cannot run with.
func (s EmitterSettings) Validate() error {
	if s.Frequency <= 0 || math.IsNaN(s.Frequency) {
		return fmt.Errorf("frequency must be > 0, got %v", s.Frequency)
	}
	if s.LifetimeMin < 0 {
		return fmt.Errorf("lifetime min must be >= 0, got %v", s.LifetimeMin)
	}
	if s.LifetimeMax < s.LifetimeMin {
		return fmt.Errorf("lifetime max(%v) < min(%v)", s.LifetimeMax, s.LifetimeMin)
	}
	return nil
}

// EmitterOption customizes an Emitter at construction.
type EmitterOption func(*Emitter)

// WithRand makes the emitter and its behaviors draw from rng.
func WithRand(rng *rand.Rand) EmitterOption {
	return func(e *Emitter) {
		e.rng = rng
	}
}

// WithSeed is WithRand with a PCG generator seeded by seed.
func WithSeed(seed uint64) EmitterOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Emitter spawns particles from its pool and drives its behaviors.
//
// An Emitter starts emitting as soon as it is created. It is not safe for
// concurrent use; the host calls Update once per frame.
type Emitter struct {
	settings EmitterSettings
	rotation float64 // radians

	pool *ecs.ParticlePool
	rng  *rand.Rand

	initializers []behavior.Initializer
	updaters     []behavior.Updater

	// 活跃链表
	head  ecs.ParticleID
	tail  ecs.ParticleID
	count int

	emit        bool
	emitterLife float64 // remaining emission time; < 0 is infinite
	spawnTimer  float64

	spawnX, spawnY float64
	ownerX, ownerY float64

	onComplete          func()
	destroyWhenComplete bool
	destroyed           bool
}

// NewEmitter creates an emitter running behaviors, sorted by order.
func NewEmitter(settings EmitterSettings, behaviors []behavior.Behavior, opts ...EmitterOption) (*Emitter, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid emitter settings: %w", err)
	}
	if settings.MaxParticles <= 0 {
		settings.MaxParticles = DefaultMaxParticles
	}
	if settings.ParticlesPerWave <= 0 {
		settings.ParticlesPerWave = 1
	}
	for i, b := range behaviors {
		if b == nil {
			return nil, fmt.Errorf("behavior %d is nil", i)
		}
	}

	e := &Emitter{
		settings: settings,
		rotation: utils.DegreesToRadians(settings.Rotation),
		head:     ecs.Nil,
		tail:     ecs.Nil,
		spawnX:   settings.SpawnX,
		spawnY:   settings.SpawnY,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.pool = ecs.NewParticlePool(settings.MaxParticles, e.rng)
	e.rng = e.pool.Rand()
	e.initializers, e.updaters = behavior.Split(behaviors)
	e.SetEmit(true)

	return e, nil
}

// Settings returns the settings the emitter was built with.
func (e *Emitter) Settings() EmitterSettings {
	return e.settings
}

// SetEmit starts or stops emission. Starting restarts the emitter lifetime.
// Stopping keeps live particles; they finish their lifetime normally.
func (e *Emitter) SetEmit(emit bool) {
	if e.destroyed {
		return
	}
	e.emit = emit
	if e.settings.EmitterLifetime > 0 {
		e.emitterLife = e.settings.EmitterLifetime
	} else {
		e.emitterLife = -1
	}
}

// Emitting reports whether the emitter is spawning new waves.
func (e *Emitter) Emitting() bool {
	return e.emit
}

// PlayOnce starts emission and calls onComplete once emission has stopped and
// every particle has expired.
func (e *Emitter) PlayOnce(onComplete func()) {
	e.onComplete = onComplete
	e.SetEmit(true)
}

// PlayOnceAndDestroy is PlayOnce followed by Destroy on completion.
func (e *Emitter) PlayOnceAndDestroy(onComplete func()) {
	e.destroyWhenComplete = true
	e.PlayOnce(onComplete)
}

// UpdateSpawnPos moves the spawn offset relative to the owner.
func (e *Emitter) UpdateSpawnPos(x, y float64) {
	e.spawnX, e.spawnY = x, y
}

// UpdateOwnerPos moves the owner. Particles already spawned stay where they are.
func (e *Emitter) UpdateOwnerPos(x, y float64) {
	e.ownerX, e.ownerY = x, y
}

// Rotate sets the emitter rotation in degrees. The spawn offset turns with it.
func (e *Emitter) Rotate(deg float64) {
	rot := utils.DegreesToRadians(deg)
	if rot == e.rotation {
		return
	}
	diff := rot - e.rotation
	e.rotation = rot
	e.spawnX, e.spawnY = utils.RotatePoint(diff, e.spawnX, e.spawnY)
}

// Rotation returns the emitter rotation in degrees.
func (e *Emitter) Rotation() float64 {
	return e.rotation / utils.DegToRads
}

// ParticleCount returns the number of active particles.
func (e *Emitter) ParticleCount() int {
	return e.count
}

// Capacity returns the pool capacity.
func (e *Emitter) Capacity() int {
	return e.pool.Cap()
}

// Each calls fn for every active particle in list order.
// fn must not keep p after it returns.
func (e *Emitter) Each(fn func(p *components.Particle)) {
	for id := e.head; id != ecs.Nil; id = e.pool.Next(id) {
		fn(e.pool.Get(id))
	}
}

// Update advances the emitter by deltaSec seconds.
func (e *Emitter) Update(deltaSec float64) {
	if e.destroyed {
		return
	}
	if deltaSec < 0 {
		deltaSec = 0
	}

	e.sweep(deltaSec)

	if e.head != ecs.Nil {
		list := e.pool.List(e.head, ecs.Nil)
		for _, u := range e.updaters {
			u.UpdateParticles(list, deltaSec)
		}
	}

	if e.emit {
		e.spawn(deltaSec)
	}

	if !e.emit && e.head == ecs.Nil {
		if e.onComplete != nil {
			cb := e.onComplete
			e.onComplete = nil
			cb()
		}
		if e.destroyWhenComplete {
			e.Destroy()
		}
	}
}

// Cleanup returns every active particle to the pool.
func (e *Emitter) Cleanup() {
	for id := e.head; id != ecs.Nil; {
		next := e.pool.Next(id)
		e.pool.Release(id)
		id = next
	}
	e.head, e.tail = ecs.Nil, ecs.Nil
	e.count = 0
}

// Destroy stops emission, recycles all particles and drops the behaviors.
// A destroyed emitter ignores Update.
func (e *Emitter) Destroy() {
	if e.destroyed {
		return
	}
	e.Cleanup()
	e.emit = false
	e.onComplete = nil
	e.initializers = nil
	e.updaters = nil
	e.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (e *Emitter) Destroyed() bool {
	return e.destroyed
}

// sweep ages every active particle, unlinking and recycling the expired ones.
func (e *Emitter) sweep(deltaSec float64) {
	prev := ecs.Nil
	for id := e.head; id != ecs.Nil; {
		next := e.pool.Next(id)
		p := e.pool.Get(id)
		p.Age += deltaSec

		if p.Age >= p.MaxLife {
			if prev == ecs.Nil {
				e.head = next
			} else {
				e.pool.SetNext(prev, next)
			}
			if id == e.tail {
				e.tail = prev
			}
			e.pool.Release(id)
			e.count--
		} else {
			e.updateAgePercent(p)
			prev = id
		}
		id = next
	}
}

func (e *Emitter) updateAgePercent(p *components.Particle) {
	t := math.Min(1, p.Age*p.OneOverLife)
	if e.settings.Ease != nil {
		t = e.settings.Ease(t)
	}
	p.AgePercent = t
}

// spawn runs the wave timer and spawns every wave due in this frame.
func (e *Emitter) spawn(deltaSec float64) {
	freq := e.settings.Frequency

	e.spawnTimer -= deltaSec
	for e.spawnTimer <= 0 {
		if e.emitterLife >= 0 {
			e.emitterLife -= freq
			if e.emitterLife <= 0 {
				e.spawnTimer = 0
				e.emitterLife = 0
				e.emit = false
				return
			}
		}

		// 池已满，跳过本批次
		if e.count >= e.pool.Cap() {
			e.spawnTimer += freq
			continue
		}

		e.spawnWave(-e.spawnTimer)
		e.spawnTimer += freq
	}
}

// spawnWave acquires one batch and runs the init phase over it.
// catchUp is how long ago the wave was due.
func (e *Emitter) spawnWave(catchUp float64) {
	s := &e.settings

	first, last := ecs.Nil, ecs.Nil
	n := 0
	for i := 0; i < s.ParticlesPerWave; i++ {
		if s.SpawnChance < 1 && e.rng.Float64() >= s.SpawnChance {
			continue
		}
		id, ok := e.pool.Acquire()
		if !ok {
			break
		}

		p := e.pool.Get(id)
		p.MaxLife = particle.RandomInRange(e.rng, s.LifetimeMin, s.LifetimeMax)
		if p.MaxLife > 0 {
			p.OneOverLife = 1 / p.MaxLife
		}
		p.Rotation = e.rotation

		if first == ecs.Nil {
			first = id
		} else {
			e.pool.SetNext(last, id)
		}
		last = id
		n++
	}
	if first == ecs.Nil {
		return
	}
	e.count += n

	list := e.linkBatch(first, last)
	for _, b := range e.initializers {
		b.InitParticles(list)
	}

	// 本地坐标 -> 世界坐标
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		x, y := utils.RotatePoint(e.rotation, p.X, p.Y)
		p.X = x + e.spawnX + e.ownerX
		p.Y = y + e.spawnY + e.ownerY
	}

	if catchUp <= 0 {
		return
	}

	expired := false
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Age += catchUp
		if p.Age >= p.MaxLife {
			expired = true
		}
		e.updateAgePercent(p)
	}
	for _, u := range e.updaters {
		u.UpdateParticles(list, catchUp)
	}
	if expired {
		e.sweep(0)
	}
}

// linkBatch links first..last into the active list and returns a list over
// just that batch.
func (e *Emitter) linkBatch(first, last ecs.ParticleID) ecs.List {
	if e.settings.AddAtBack {
		oldHead := e.head
		e.pool.SetNext(last, oldHead)
		e.head = first
		if e.tail == ecs.Nil {
			e.tail = last
		}
		return e.pool.List(first, oldHead)
	}

	if e.tail == ecs.Nil {
		e.head = first
	} else {
		e.pool.SetNext(e.tail, first)
	}
	e.tail = last
	return e.pool.List(first, ecs.Nil)
}
