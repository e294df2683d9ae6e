package behavior

import (
	"math"

	"github.com/decker502/particlefx/internal/particle"
	"github.com/decker502/particlefx/pkg/ecs"
	"github.com/decker502/particlefx/pkg/utils"
)

const (
	MoveSpeedType        = "moveSpeed"
	MoveSpeedStaticType  = "moveSpeedStatic"
	MoveAccelerationType = "moveAcceleration"
)

// Movement behaviors run Late so the launch direction follows the rotation
// set by Normal behaviors.

// MoveSpeedConfig configures MoveSpeedBehavior.
type MoveSpeedConfig struct {
	Speed ValueListConfig `yaml:"speed"`
	// MinMult is the lower bound of a per-particle speed multiplier in [MinMult, 1).
	// Omitted means 1, no variation; an explicit 0 is honoured.
	MinMult *float64 `yaml:"minMult,omitempty"`
}

// MoveSpeedBehavior moves particles along their launch direction with a speed
// that follows a value list over the particle's lifetime.
type MoveSpeedBehavior struct {
	list    *particle.List[float64]
	minMult float64
}

// NewMoveSpeedBehavior builds the speed list.
func NewMoveSpeedBehavior(cfg MoveSpeedConfig) (*MoveSpeedBehavior, error) {
	list, err := cfg.Speed.build(0)
	if err != nil {
		return nil, err
	}
	minMult := multOrOne(cfg.MinMult)
	return &MoveSpeedBehavior{list: list, minMult: minMult}, nil
}

// Order implements Behavior.
func (b *MoveSpeedBehavior) Order() Order { return Late }

// InitParticles picks the multiplier and the launch velocity.
func (b *MoveSpeedBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	first := b.list.First()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		mult := particle.RandomInRange(rng, b.minMult, 1)
		p.Ext.SpeedMult = mult
		p.Ext.VelocityX, p.Ext.VelocityY = utils.RotatePoint(p.Rotation, first*mult, 0)
	}
}

// UpdateParticles rescales velocity to the current speed and moves.
func (b *MoveSpeedBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		speed := b.list.Evaluate(p.AgePercent) * p.Ext.SpeedMult

		vx, vy := utils.Normalize(p.Ext.VelocityX, p.Ext.VelocityY)
		if vx == 0 && vy == 0 {
			// 速度曾为 0，方向丢失，回退到粒子朝向
			vx, vy = utils.RotatePoint(p.Rotation, 1, 0)
		}
		p.Ext.VelocityX, p.Ext.VelocityY = utils.ScaleBy(vx, vy, speed)

		p.X += p.Ext.VelocityX * deltaSec
		p.Y += p.Ext.VelocityY * deltaSec
	}
}

// MoveSpeedStaticConfig configures MoveSpeedStaticBehavior.
type MoveSpeedStaticConfig struct {
	Min float64 `yaml:"min"` // pixels/second
	Max float64 `yaml:"max"` // pixels/second
}

// MoveSpeedStaticBehavior launches particles at a constant random speed.
type MoveSpeedStaticBehavior struct {
	min float64
	max float64
}

// NewMoveSpeedStaticBehavior creates a MoveSpeedStaticBehavior.
func NewMoveSpeedStaticBehavior(cfg MoveSpeedStaticConfig) *MoveSpeedStaticBehavior {
	return &MoveSpeedStaticBehavior{min: cfg.Min, max: cfg.Max}
}

// Order implements Behavior.
func (b *MoveSpeedStaticBehavior) Order() Order { return Late }

// InitParticles sets the launch velocity along the particle's rotation.
func (b *MoveSpeedStaticBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		speed := particle.RandomInRange(rng, b.min, b.max)
		p.Ext.VelocityX, p.Ext.VelocityY = utils.RotatePoint(p.Rotation, speed, 0)
	}
}

// UpdateParticles moves particles by their velocity.
func (b *MoveSpeedStaticBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.X += p.Ext.VelocityX * deltaSec
		p.Y += p.Ext.VelocityY * deltaSec
	}
}

// Vec2Config is a 2D vector in a descriptor.
type Vec2Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// MoveAccelerationConfig configures MoveAccelerationBehavior.
type MoveAccelerationConfig struct {
	Accel    Vec2Config `yaml:"accel"`    // pixels/second²
	MinStart float64    `yaml:"minStart"` // pixels/second
	MaxStart float64    `yaml:"maxStart"` // pixels/second
	Rotate   bool       `yaml:"rotate"`   // face the direction of travel
	MaxSpeed float64    `yaml:"maxSpeed"` // 0 = unlimited
}

// MoveAccelerationBehavior applies a constant acceleration to the launch
// velocity.
type MoveAccelerationBehavior struct {
	accelX   float64
	accelY   float64
	minStart float64
	maxStart float64
	rotate   bool
	maxSpeed float64
}

// NewMoveAccelerationBehavior creates a MoveAccelerationBehavior.
func NewMoveAccelerationBehavior(cfg MoveAccelerationConfig) *MoveAccelerationBehavior {
	return &MoveAccelerationBehavior{
		accelX:   cfg.Accel.X,
		accelY:   cfg.Accel.Y,
		minStart: cfg.MinStart,
		maxStart: cfg.MaxStart,
		rotate:   cfg.Rotate,
		maxSpeed: cfg.MaxSpeed,
	}
}

// Order implements Behavior.
func (b *MoveAccelerationBehavior) Order() Order { return Late }

// InitParticles sets the launch velocity along the particle's rotation.
func (b *MoveAccelerationBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		speed := particle.RandomInRange(rng, b.minStart, b.maxStart)
		p.Ext.VelocityX, p.Ext.VelocityY = utils.RotatePoint(p.Rotation, speed, 0)
	}
}

// UpdateParticles accelerates, clamps to maxSpeed and moves with the average
// of the old and new velocity.
func (b *MoveAccelerationBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		oldVX, oldVY := p.Ext.VelocityX, p.Ext.VelocityY

		vx := oldVX + b.accelX*deltaSec
		vy := oldVY + b.accelY*deltaSec
		if b.maxSpeed > 0 {
			if speed := utils.Length(vx, vy); speed > b.maxSpeed {
				vx, vy = utils.ScaleBy(vx, vy, b.maxSpeed/speed)
			}
		}
		p.Ext.VelocityX, p.Ext.VelocityY = vx, vy

		p.X += (oldVX + vx) / 2 * deltaSec
		p.Y += (oldVY + vy) / 2 * deltaSec

		if b.rotate {
			p.Rotation = math.Atan2(vy, vx)
		}
	}
}
