package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/particlefx/pkg/systems"
	"github.com/decker502/particlefx/pkg/systems/behavior"
	"github.com/decker502/particlefx/pkg/utils"
)

// EmitterConfig 粒子发射器描述文件
//
// 描述一个发射器的数值参数和行为列表。省略的数值字段取零值，
// spawnChance 省略时为 1，particlesPerWave / maxParticles 省略时取发射器默认值。
//
// 配置文件位置: effects/*.yaml
type EmitterConfig struct {
	// Lifetime 粒子寿命范围（秒）
	Lifetime RangeConfig `yaml:"lifetime"`

	// Frequency 两批粒子之间的间隔（秒），必须大于 0
	Frequency float64 `yaml:"frequency"`

	// SpawnChance 每个粒子的生成概率 [0, 1]，省略为 1
	SpawnChance *float64 `yaml:"spawnChance,omitempty"`

	// ParticlesPerWave 每批粒子数，省略为 1
	ParticlesPerWave int `yaml:"particlesPerWave,omitempty"`

	// EmitterLifetime 发射持续时间（秒），<= 0 表示持续发射
	EmitterLifetime float64 `yaml:"emitterLifetime,omitempty"`

	// MaxParticles 粒子池容量，省略为 systems.DefaultMaxParticles
	MaxParticles int `yaml:"maxParticles,omitempty"`

	// Pos 相对 owner 的生成偏移
	Pos PointConfig `yaml:"pos"`

	// Rotation 发射器朝向（角度）
	Rotation float64 `yaml:"rotation,omitempty"`

	// AddAtBack 新批次插入活跃链表头部（先绘制）
	AddAtBack bool `yaml:"addAtBack,omitempty"`

	// Ease 粒子寿命进度的缓动函数名，与 EaseSegments 互斥
	Ease string `yaml:"ease,omitempty"`

	// EaseSegments 自定义分段缓动曲线
	EaseSegments []utils.EaseSegment `yaml:"easeSegments,omitempty"`

	// Seed 随机种子，0 表示随机
	Seed uint64 `yaml:"seed,omitempty"`

	// Behaviors 行为列表，按 order 排序后执行（同 order 保持此处顺序）
	Behaviors []BehaviorConfig `yaml:"behaviors"`
}

// RangeConfig 数值范围
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// PointConfig 二维坐标
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BehaviorConfig 单个行为
//
// Config 保留原始 YAML 节点，由行为注册表按类型解码。
type BehaviorConfig struct {
	Type   string    `yaml:"type"`
	Config yaml.Node `yaml:"config,omitempty"`
}

// LoadEmitterConfig 加载粒子发射器描述文件
//
// 参数:
//   - path: 配置文件路径（如 "effects/sparks.yaml"）
//
// 返回:
//   - *EmitterConfig: 解析并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadEmitterConfig(path string) (*EmitterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read emitter config: %w", err)
	}

	cfg, err := ParseEmitterConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseEmitterConfig 从 YAML 数据解析发射器描述
func ParseEmitterConfig(data []byte) (*EmitterConfig, error) {
	var cfg EmitterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse emitter config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid emitter config: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置有效性
//
// 检查:
//   - frequency 大于 0
//   - lifetime 的 min >= 0 且 max >= min，max 大于 0
//   - spawnChance 在 [0, 1] 内
//   - 缓动函数存在，且 ease 与 easeSegments 不同时设置
//   - 每个行为类型都已注册
//
// 行为的具体参数在 Build 时才会校验。
func (c *EmitterConfig) Validate() error {
	if c.Frequency <= 0 {
		return fmt.Errorf("frequency must be > 0, got %v", c.Frequency)
	}

	if c.Lifetime.Min < 0 {
		return fmt.Errorf("lifetime min must be >= 0, got %v", c.Lifetime.Min)
	}
	if c.Lifetime.Min > c.Lifetime.Max {
		return fmt.Errorf("lifetime range invalid: min(%.2f) > max(%.2f)", c.Lifetime.Min, c.Lifetime.Max)
	}
	if c.Lifetime.Max <= 0 {
		return fmt.Errorf("lifetime max must be > 0, got %v", c.Lifetime.Max)
	}

	if c.SpawnChance != nil && (*c.SpawnChance < 0 || *c.SpawnChance > 1) {
		return fmt.Errorf("spawnChance must be in [0, 1], got %v", *c.SpawnChance)
	}
	if c.ParticlesPerWave < 0 {
		return fmt.Errorf("particlesPerWave must be >= 0, got %d", c.ParticlesPerWave)
	}
	if c.MaxParticles < 0 {
		return fmt.Errorf("maxParticles must be >= 0, got %d", c.MaxParticles)
	}

	if c.Ease != "" && len(c.EaseSegments) > 0 {
		return fmt.Errorf("ease and easeSegments are mutually exclusive")
	}
	if _, ok := utils.EaseByName(c.Ease); !ok {
		return fmt.Errorf("unknown ease %q", c.Ease)
	}

	for i, b := range c.Behaviors {
		if b.Type == "" {
			return fmt.Errorf("behavior %d: missing type", i)
		}
		if !behavior.Registered(b.Type) {
			return fmt.Errorf("behavior %d: unknown type %q", i, b.Type)
		}
	}

	return nil
}

// Settings 转换为发射器参数
func (c *EmitterConfig) Settings() systems.EmitterSettings {
	s := systems.EmitterSettings{
		MaxParticles:     c.MaxParticles,
		LifetimeMin:      c.Lifetime.Min,
		LifetimeMax:      c.Lifetime.Max,
		Frequency:        c.Frequency,
		SpawnChance:      1,
		ParticlesPerWave: c.ParticlesPerWave,
		EmitterLifetime:  c.EmitterLifetime,
		SpawnX:           c.Pos.X,
		SpawnY:           c.Pos.Y,
		Rotation:         c.Rotation,
		AddAtBack:        c.AddAtBack,
	}
	if c.SpawnChance != nil {
		s.SpawnChance = *c.SpawnChance
	}

	if len(c.EaseSegments) > 0 {
		s.Ease = utils.GenerateEase(c.EaseSegments)
	} else if ease, ok := utils.EaseByName(c.Ease); ok {
		s.Ease = ease
	}

	return s
}

// BuildBehaviors 按描述构造所有行为
func (c *EmitterConfig) BuildBehaviors() ([]behavior.Behavior, error) {
	behaviors := make([]behavior.Behavior, 0, len(c.Behaviors))
	for i := range c.Behaviors {
		b := &c.Behaviors[i]

		var decode behavior.Decoder
		if b.Config.Kind != 0 {
			node := &b.Config
			decode = func(v any) error { return node.Decode(v) }
		}

		built, err := behavior.New(b.Type, decode)
		if err != nil {
			return nil, fmt.Errorf("behavior %d: %w", i, err)
		}
		behaviors = append(behaviors, built)
	}
	return behaviors, nil
}

// Build 返回发射器参数和行为列表
func (c *EmitterConfig) Build() (systems.EmitterSettings, []behavior.Behavior, error) {
	behaviors, err := c.BuildBehaviors()
	if err != nil {
		return systems.EmitterSettings{}, nil, err
	}
	return c.Settings(), behaviors, nil
}

// NewEmitter 按描述创建发射器
//
// Seed 非 0 时发射器使用确定的随机序列，额外的 opts 在其后应用。
func (c *EmitterConfig) NewEmitter(opts ...systems.EmitterOption) (*systems.Emitter, error) {
	settings, behaviors, err := c.Build()
	if err != nil {
		return nil, err
	}

	if c.Seed != 0 {
		opts = append([]systems.EmitterOption{systems.WithSeed(c.Seed)}, opts...)
	}

	e, err := systems.NewEmitter(settings, behaviors, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create emitter: %w", err)
	}
	return e, nil
}

// Marshal 序列化为 YAML
func (c *EmitterConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emitter config: %w", err)
	}
	return data, nil
}
