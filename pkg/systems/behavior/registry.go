package behavior

import (
	"fmt"
	"sort"
)

// Decoder fills a behavior's config record from an external descriptor.
// Fields the descriptor omits keep their zero value.
type Decoder func(v any) error

// Factory builds a behavior from a decoder.
type Factory func(decode Decoder) (Behavior, error)

var registry = map[string]Factory{}

// Register makes a behavior kind available under typeID.
// It panics if typeID is empty or already registered.
func Register(typeID string, factory Factory) {
	if typeID == "" {
		panic("behavior: empty type id")
	}
	if factory == nil {
		panic("behavior: nil factory for " + typeID)
	}
	if _, dup := registry[typeID]; dup {
		panic("behavior: duplicate type id " + typeID)
	}
	registry[typeID] = factory
}

// Registered reports whether typeID has a factory.
func Registered(typeID string) bool {
	_, ok := registry[typeID]
	return ok
}

// Types returns all registered type ids in sorted order.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// New builds the behavior registered under typeID.
// A nil decode builds the behavior from its all-default config.
func New(typeID string, decode Decoder) (Behavior, error) {
	factory, ok := registry[typeID]
	if !ok {
		return nil, fmt.Errorf("unknown behavior type %q", typeID)
	}
	if decode == nil {
		decode = func(any) error { return nil }
	}
	b, err := factory(decode)
	if err != nil {
		return nil, fmt.Errorf("failed to build behavior %q: %w", typeID, err)
	}
	return b, nil
}

// factoryFor adapts a typed constructor into a Factory.
func factoryFor[C any](build func(C) (Behavior, error)) Factory {
	return func(decode Decoder) (Behavior, error) {
		var cfg C
		if err := decode(&cfg); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return build(cfg)
	}
}

func init() {
	Register(RotationType, factoryFor(func(c RotationConfig) (Behavior, error) {
		return NewRotationBehavior(c), nil
	}))
	Register(StaticRotationType, factoryFor(func(c StaticRotationConfig) (Behavior, error) {
		return NewStaticRotationBehavior(c), nil
	}))
	Register(NoRotationType, factoryFor(func(struct{}) (Behavior, error) {
		return NewNoRotationBehavior(), nil
	}))

	Register(SpawnPointType, factoryFor(func(struct{}) (Behavior, error) {
		return NewSpawnPointBehavior(), nil
	}))
	Register(SpawnShapeType, factoryFor(func(c SpawnShapeConfig) (Behavior, error) {
		return NewSpawnShapeBehavior(c)
	}))

	Register(MoveSpeedType, factoryFor(func(c MoveSpeedConfig) (Behavior, error) {
		return NewMoveSpeedBehavior(c)
	}))
	Register(MoveSpeedStaticType, factoryFor(func(c MoveSpeedStaticConfig) (Behavior, error) {
		return NewMoveSpeedStaticBehavior(c), nil
	}))
	Register(MoveAccelerationType, factoryFor(func(c MoveAccelerationConfig) (Behavior, error) {
		return NewMoveAccelerationBehavior(c), nil
	}))

	Register(AlphaType, factoryFor(func(c AlphaConfig) (Behavior, error) {
		return NewAlphaBehavior(c)
	}))
	Register(AlphaStaticType, factoryFor(func(c AlphaStaticConfig) (Behavior, error) {
		return NewAlphaStaticBehavior(c), nil
	}))
	Register(ScaleType, factoryFor(func(c ScaleConfig) (Behavior, error) {
		return NewScaleBehavior(c)
	}))
	Register(ScaleStaticType, factoryFor(func(c ScaleStaticConfig) (Behavior, error) {
		return NewScaleStaticBehavior(c), nil
	}))
	Register(ColorType, factoryFor(func(c ColorConfig) (Behavior, error) {
		return NewColorBehavior(c)
	}))
	Register(ColorStaticType, factoryFor(func(c ColorStaticConfig) (Behavior, error) {
		return NewColorStaticBehavior(c)
	}))

	Register(TurbulenceType, factoryFor(func(c TurbulenceConfig) (Behavior, error) {
		return NewTurbulenceBehavior(c), nil
	}))
}
