package components

import "github.com/lucasb-eyer/go-colorful"

// ParticleComponent represents a single pooled particle.
// It stores all the runtime state for an individual particle: position,
// rotation, visual properties and lifecycle counters.
//
// Particles live in a fixed-capacity pool owned by an emitter. The link to the
// next active particle is kept by the pool (next-index array), not here, so a
// particle record is plain data that the renderer can read after each frame.
//
// This is a pure data component following ECS principles - it contains no methods.
type ParticleComponent struct {
	// Position (像素, 发射器所在空间)
	X float64
	Y float64

	// Rotation in radians
	Rotation float64

	// Visual properties (渲染器读取)
	Scale float64        // Scale multiplier (1.0 = original size)
	Alpha float64        // 0 = fully transparent, 1 = fully opaque
	Tint  colorful.Color // Tint multiplier, white = untinted

	// Lifecycle (生命周期, 秒)
	Age         float64 // Time this particle has been alive (seconds)
	MaxLife     float64 // Total lifetime before the particle is recycled (seconds)
	OneOverLife float64 // 1 / MaxLife, cached at spawn
	AgePercent  float64 // Age / MaxLife after the emitter ease, in [0, 1)

	// Ext holds behavior-private scratch values.
	Ext ParticleExt
}

// ParticleExt is the typed per-particle scratch state written by behaviors.
// Each field is owned by exactly one behavior kind and is written in that
// behavior's init phase before its update phase reads it. Zero values are the
// defaults; the pool clears the whole struct when the particle is recycled.
type ParticleExt struct {
	// RotSpeed 角速度（弧度/秒），rotation 行为
	RotSpeed float64

	// Velocity (像素/秒)，move* 行为
	VelocityX float64
	VelocityY float64

	// SpeedMult 速度列表乘数，moveSpeed 行为
	SpeedMult float64

	// ScaleMult 缩放列表乘数，scale 行为
	ScaleMult float64

	// NoiseOffset 噪声采样偏移，turbulence 行为
	NoiseOffset float64
}

// Particle is the name behaviors and renderers use for a pooled particle record.
type Particle = ParticleComponent
