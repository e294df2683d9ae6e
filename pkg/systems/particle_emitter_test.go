package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/particlefx/pkg/components"
	"github.com/decker502/particlefx/pkg/systems/behavior"
	"github.com/decker502/particlefx/pkg/utils"
)

func newTestEmitter(t *testing.T, mutate func(s *EmitterSettings), behaviors ...behavior.Behavior) *Emitter {
	t.Helper()
	s := DefaultEmitterSettings()
	s.Frequency = 0.25
	s.LifetimeMin, s.LifetimeMax = 10, 10
	if mutate != nil {
		mutate(&s)
	}
	e, err := NewEmitter(s, behaviors, WithSeed(1))
	require.NoError(t, err)
	return e
}

func particles(e *Emitter) []*components.Particle {
	var out []*components.Particle
	e.Each(func(p *components.Particle) { out = append(out, p) })
	return out
}

func ages(e *Emitter) []float64 {
	var out []float64
	e.Each(func(p *components.Particle) { out = append(out, p.Age) })
	return out
}

// checkListIntegrity 链表长度、计数与池空闲数一致
func checkListIntegrity(t *testing.T, e *Emitter) {
	t.Helper()
	n := len(particles(e))
	assert.Equal(t, e.ParticleCount(), n, "count mismatch")
	assert.Equal(t, e.Capacity()-n, e.pool.FreeCount(), "pool free count mismatch")
}

func TestNewEmitter_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *EmitterSettings)
	}{
		{"频率为 0", func(s *EmitterSettings) { s.Frequency = 0 }},
		{"频率为负", func(s *EmitterSettings) { s.Frequency = -1 }},
		{"寿命下限为负", func(s *EmitterSettings) { s.LifetimeMin = -1 }},
		{"寿命上限小于下限", func(s *EmitterSettings) { s.LifetimeMin, s.LifetimeMax = 2, 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultEmitterSettings()
			tt.mutate(&s)
			_, err := NewEmitter(s, nil)
			assert.Error(t, err)
		})
	}

	t.Run("nil 行为", func(t *testing.T) {
		_, err := NewEmitter(DefaultEmitterSettings(), []behavior.Behavior{nil})
		assert.Error(t, err)
	})

	t.Run("缺省值", func(t *testing.T) {
		s := DefaultEmitterSettings()
		s.MaxParticles = 0
		s.ParticlesPerWave = 0
		e, err := NewEmitter(s, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultMaxParticles, e.Capacity())
		assert.Equal(t, 1, e.Settings().ParticlesPerWave)
		assert.True(t, e.Emitting())
	})
}

func TestEmitter_SpawnsAtFrequency(t *testing.T) {
	e := newTestEmitter(t, nil)

	// 第一帧立即发射一批
	e.Update(0)
	assert.Equal(t, 1, e.ParticleCount())

	// 1 秒内到期 4 批
	e.Update(1)
	assert.Equal(t, 5, e.ParticleCount())
	assert.Equal(t, []float64{1, 0.75, 0.5, 0.25, 0}, ages(e))
	checkListIntegrity(t, e)
}

func TestEmitter_ParticlesPerWave(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) { s.ParticlesPerWave = 7 })
	e.Update(0)
	assert.Equal(t, 7, e.ParticleCount())
	e.Update(0.25)
	assert.Equal(t, 14, e.ParticleCount())
}

func TestEmitter_RecyclesExpired(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.LifetimeMin, s.LifetimeMax = 0.5, 0.5
		s.MaxParticles = 4
	})

	e.Update(0)
	for i := 0; i < 100; i++ {
		e.Update(0.25)
		require.Equal(t, 2, e.ParticleCount(), "frame %d", i)
		checkListIntegrity(t, e)
	}
	for _, p := range particles(e) {
		assert.Less(t, p.Age, p.MaxLife)
		assert.GreaterOrEqual(t, p.AgePercent, 0.0)
		assert.Less(t, p.AgePercent, 1.0)
	}
}

func TestEmitter_RespectsCapacity(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.MaxParticles = 3
		s.ParticlesPerWave = 5
	})

	e.Update(0)
	assert.Equal(t, 3, e.ParticleCount())
	for i := 0; i < 10; i++ {
		e.Update(0.25)
		assert.Equal(t, 3, e.ParticleCount())
	}
	assert.Zero(t, e.pool.FreeCount())
	checkListIntegrity(t, e)
}

func TestEmitter_SpawnChance(t *testing.T) {
	t.Run("概率为 0", func(t *testing.T) {
		e := newTestEmitter(t, func(s *EmitterSettings) {
			s.SpawnChance = 0
			s.ParticlesPerWave = 50
		})
		e.Update(0)
		e.Update(1)
		assert.Zero(t, e.ParticleCount())
	})

	t.Run("概率为 0.5", func(t *testing.T) {
		e := newTestEmitter(t, func(s *EmitterSettings) {
			s.SpawnChance = 0.5
			s.ParticlesPerWave = 2000
			s.MaxParticles = 2000
		})
		e.Update(0)
		n := e.ParticleCount()
		assert.InDelta(t, 1000, n, 150)
		checkListIntegrity(t, e)
	})
}

func TestEmitter_EmitterLifetime(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) { s.EmitterLifetime = 1 })

	e.Update(0)
	e.Update(0.25)
	e.Update(0.25)
	assert.True(t, e.Emitting())
	assert.Equal(t, 3, e.ParticleCount())

	e.Update(0.25)
	assert.False(t, e.Emitting())
	assert.Equal(t, 3, e.ParticleCount(), "live particles survive the end of emission")

	// 重新开始会重置发射寿命
	e.SetEmit(true)
	e.Update(0)
	assert.True(t, e.Emitting())
	assert.Equal(t, 4, e.ParticleCount())
}

func TestEmitter_SetEmitFalse(t *testing.T) {
	e := newTestEmitter(t, nil)
	e.Update(0)
	e.SetEmit(false)
	e.Update(1)
	assert.Equal(t, 1, e.ParticleCount())
}

func TestEmitter_OnCompleteFiresOnce(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.LifetimeMin, s.LifetimeMax = 0.5, 0.5
		s.EmitterLifetime = 0.5
	})

	calls := 0
	e.PlayOnce(func() { calls++ })

	e.Update(0)
	e.Update(0.25)
	assert.False(t, e.Emitting())
	assert.Equal(t, 1, e.ParticleCount())
	assert.Zero(t, calls)

	e.Update(0.25)
	assert.Zero(t, e.ParticleCount())
	assert.Equal(t, 1, calls)

	e.Update(0.25)
	assert.Equal(t, 1, calls)
	assert.False(t, e.Destroyed())
}

func TestEmitter_PlayOnceAndDestroy(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.LifetimeMin, s.LifetimeMax = 0.25, 0.25
		s.EmitterLifetime = 0.5
	})

	done := false
	e.PlayOnceAndDestroy(func() { done = true })
	e.Update(0)
	require.Equal(t, 1, e.ParticleCount())
	assert.False(t, done)

	e.Update(0.25)
	assert.True(t, done)
	assert.True(t, e.Destroyed())
	assert.Equal(t, e.Capacity(), e.pool.FreeCount())
}

// TestEmitter_CatchUp 同一帧内多批次按各自的延迟追帧
func TestEmitter_CatchUp(t *testing.T) {
	e := newTestEmitter(t, nil, behavior.NewMoveSpeedStaticBehavior(behavior.MoveSpeedStaticConfig{Min: 100, Max: 100}))

	e.Update(0)
	e.Update(1)

	var xs []float64
	for _, p := range particles(e) {
		xs = append(xs, p.X)
		assert.InDelta(t, 0, p.Y, 1e-9)
	}
	assert.Equal(t, []float64{100, 75, 50, 25, 0}, xs)
}

func TestEmitter_CatchUpExpires(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.LifetimeMin, s.LifetimeMax = 0.5, 0.5
	})

	e.Update(0)
	e.Update(1)
	assert.Equal(t, []float64{0.25, 0}, ages(e))
	checkListIntegrity(t, e)
}

func TestEmitter_BatchOrder(t *testing.T) {
	tests := []struct {
		name      string
		addAtBack bool
		want      []float64
	}{
		{name: "追加到末尾", want: []float64{0.5, 0.25, 0}},
		{name: "插入到头部", addAtBack: true, want: []float64{0, 0.25, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmitter(t, func(s *EmitterSettings) {
				s.AddAtBack = tt.addAtBack
				s.ParticlesPerWave = 1
			})
			e.Update(0)
			e.Update(0.25)
			e.Update(0.25)
			assert.Equal(t, tt.want, ages(e))
			checkListIntegrity(t, e)
		})
	}
}

// TestEmitter_InitOnlyVisitsNewBatch 初始化只作用于新生成的批次
func TestEmitter_InitOnlyVisitsNewBatch(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) { s.AddAtBack = true },
		behavior.NewStaticRotationBehavior(behavior.StaticRotationConfig{Min: 90, Max: 90}))

	e.Update(0)
	e.Update(0.25)
	e.Update(0.25)
	for _, p := range particles(e) {
		assert.InDelta(t, math.Pi/2, p.Rotation, 1e-12)
	}
}

func TestEmitter_RotationAndPosition(t *testing.T) {
	shape, err := behavior.NewSpawnShapeBehavior(behavior.SpawnShapeConfig{
		Type: behavior.ShapeRect,
		Data: behavior.ShapeData{X: 10},
	})
	require.NoError(t, err)

	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.Rotation = 90
		s.SpawnX, s.SpawnY = 5, 5
	}, shape)
	e.UpdateOwnerPos(100, 0)
	e.Update(0)

	p := particles(e)[0]
	assert.InDelta(t, math.Pi/2, p.Rotation, 1e-12, "particles start at the emitter rotation")
	assert.InDelta(t, 105, p.X, 1e-9)
	assert.InDelta(t, 15, p.Y, 1e-9)

	// 移动 owner 不影响已生成的粒子
	e.UpdateOwnerPos(0, 0)
	assert.InDelta(t, 105, p.X, 1e-9)
}

func TestEmitter_Rotate(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) { s.SpawnX = 10 })
	e.Rotate(90)
	assert.InDelta(t, 90, e.Rotation(), 1e-9)
	assert.InDelta(t, 0, e.spawnX, 1e-9)
	assert.InDelta(t, 10, e.spawnY, 1e-9)

	e.UpdateSpawnPos(3, 4)
	e.Update(0)
	p := particles(e)[0]
	assert.InDelta(t, 3, p.X, 1e-9)
	assert.InDelta(t, 4, p.Y, 1e-9)
}

// TestEmitter_NoRotationWins 无论注册顺序，noRotation 总是最后生效
func TestEmitter_NoRotationWins(t *testing.T) {
	rotation := behavior.NewRotationBehavior(behavior.RotationConfig{MinStart: 0, MaxStart: 360, MinSpeed: 10, MaxSpeed: 20})
	none := behavior.NewNoRotationBehavior()

	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.Rotation = 45
		s.ParticlesPerWave = 10
	}, none, rotation)
	e.Update(0)

	for _, p := range particles(e) {
		assert.Equal(t, 0.0, p.Rotation)
		assert.NotZero(t, p.Ext.RotSpeed)
	}

	// 更新阶段仍按角速度旋转
	e.Update(0.1)
	for _, p := range particles(e) {
		if p.Age > 0 {
			assert.InDelta(t, p.Ext.RotSpeed*0.1, p.Rotation, 1e-12)
		}
	}
}

func TestEmitter_Ease(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.LifetimeMin, s.LifetimeMax = 1, 1
		s.Ease = utils.EaseInQuad
	})
	e.Update(0)
	e.SetEmit(false)
	e.Update(0.5)

	p := particles(e)[0]
	assert.InDelta(t, 0.25, p.AgePercent, 1e-12)
}

func TestEmitter_SeedIsDeterministic(t *testing.T) {
	run := func() []float64 {
		e := newTestEmitter(t, func(s *EmitterSettings) {
			s.LifetimeMin, s.LifetimeMax = 0.5, 2
			s.ParticlesPerWave = 4
		}, behavior.NewRotationBehavior(behavior.RotationConfig{MaxStart: 360, MinSpeed: -90, MaxSpeed: 90}))
		for i := 0; i < 20; i++ {
			e.Update(1.0 / 60)
		}
		var out []float64
		e.Each(func(p *components.Particle) { out = append(out, p.Rotation, p.MaxLife) })
		return out
	}
	assert.Equal(t, run(), run())
}

func TestEmitter_CleanupAndDestroy(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) { s.ParticlesPerWave = 5 })
	e.Update(0)
	e.Update(0.25)
	require.Equal(t, 10, e.ParticleCount())

	e.Cleanup()
	assert.Zero(t, e.ParticleCount())
	assert.Equal(t, e.Capacity(), e.pool.FreeCount())
	assert.Empty(t, particles(e))

	// Cleanup 后仍可继续发射
	e.Update(0.25)
	assert.Equal(t, 5, e.ParticleCount())
	checkListIntegrity(t, e)

	e.Destroy()
	assert.True(t, e.Destroyed())
	assert.False(t, e.Emitting())
	assert.Zero(t, e.ParticleCount())

	e.Update(1)
	e.SetEmit(true)
	assert.Zero(t, e.ParticleCount())
	assert.False(t, e.Emitting())
}

// TestEmitter_RecycledParticleIsReset 回收后的槽位不保留旧状态
func TestEmitter_RecycledParticleIsReset(t *testing.T) {
	e := newTestEmitter(t, func(s *EmitterSettings) {
		s.MaxParticles = 1
		s.LifetimeMin, s.LifetimeMax = 0.25, 0.25
	}, behavior.NewRotationBehavior(behavior.RotationConfig{MinSpeed: 90, MaxSpeed: 90}))

	e.Update(0)
	e.Update(0.2)
	require.NotZero(t, particles(e)[0].Rotation)

	// 旧粒子过期，同一槽位立即被新批次复用并追帧 0.05 秒
	e.Update(0.1)
	ps := particles(e)
	require.Len(t, ps, 1)
	assert.InDelta(t, 0.05, ps[0].Age, 1e-9)
	assert.InDelta(t, ps[0].Ext.RotSpeed*ps[0].Age, ps[0].Rotation, 1e-9)
	assert.Equal(t, 1.0, ps[0].Alpha)
}
