package behavior

import (
	"fmt"
	"math"

	"github.com/decker502/particlefx/pkg/ecs"
	"github.com/decker502/particlefx/pkg/utils"
)

const (
	SpawnPointType = "spawnPoint"
	SpawnShapeType = "spawnShape"
)

// Shape names accepted by SpawnShapeConfig.Type.
const (
	ShapeRect  = "rect"
	ShapeTorus = "torus"
)

// SpawnPointBehavior spawns every particle at the emitter's spawn position.
type SpawnPointBehavior struct{}

// NewSpawnPointBehavior creates a SpawnPointBehavior.
func NewSpawnPointBehavior() *SpawnPointBehavior {
	return &SpawnPointBehavior{}
}

// Order implements Behavior.
func (b *SpawnPointBehavior) Order() Order { return Spawn }

// InitParticles puts particles at the local origin.
func (b *SpawnPointBehavior) InitParticles(list ecs.List) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.X, p.Y = 0, 0
	}
}

// ShapeData holds the parameters of every shape; each shape reads its own fields.
type ShapeData struct {
	// rect
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`

	// torus (x, y is the center)
	Radius         float64 `yaml:"radius"`
	InnerRadius    float64 `yaml:"innerRadius"`
	AffectRotation bool    `yaml:"affectRotation"`
}

// SpawnShapeConfig configures SpawnShapeBehavior.
type SpawnShapeConfig struct {
	Type string    `yaml:"type"`
	Data ShapeData `yaml:"data"`
}

// SpawnShapeBehavior places particles at a random point inside a shape,
// relative to the emitter's spawn position.
type SpawnShapeBehavior struct {
	shape string
	data  ShapeData
}

// NewSpawnShapeBehavior validates the shape type.
func NewSpawnShapeBehavior(cfg SpawnShapeConfig) (*SpawnShapeBehavior, error) {
	switch cfg.Type {
	case ShapeRect, ShapeTorus:
	default:
		return nil, fmt.Errorf("unknown spawn shape %q", cfg.Type)
	}
	if cfg.Type == ShapeTorus && cfg.Data.InnerRadius > cfg.Data.Radius {
		return nil, fmt.Errorf("torus innerRadius(%.1f) > radius(%.1f)", cfg.Data.InnerRadius, cfg.Data.Radius)
	}
	return &SpawnShapeBehavior{shape: cfg.Type, data: cfg.Data}, nil
}

// Order implements Behavior.
func (b *SpawnShapeBehavior) Order() Order { return Spawn }

// InitParticles writes a random local position for each particle.
func (b *SpawnShapeBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	d := b.data
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		switch b.shape {
		case ShapeRect:
			p.X = d.X + rng.Float64()*d.W
			p.Y = d.Y + rng.Float64()*d.H
		case ShapeTorus:
			r := d.Radius
			if d.InnerRadius != d.Radius {
				r = rng.Float64()*(d.Radius-d.InnerRadius) + d.InnerRadius
			}
			angle := rng.Float64() * 2 * math.Pi
			if d.AffectRotation {
				p.Rotation += angle
			}
			x, y := utils.RotatePoint(angle, r, 0)
			p.X = x + d.X
			p.Y = y + d.Y
		}
	}
}
