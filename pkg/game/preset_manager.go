package game

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/particlefx/pkg/config"
)

// 存储路径常量
const (
	presetsObject = "presets"
	presetIndex   = "index" // 已保存预设名列表
)

// PresetManager 粒子效果预设管理器
// 负责发射器描述的命名保存、加载和删除
//
// 每个预设以 YAML 存为 presets 对象下的一个属性，属性名为预设名；
// index 属性保存全部预设名。gdataManager 为 nil 时降级为内存存储。
type PresetManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	memory       map[string][]byte
	names        []string
}

// NewPresetManager 创建预设管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存保存）
//
// 返回：
//   - *PresetManager: 预设管理器实例
func NewPresetManager(gdataManager *gdata.Manager) *PresetManager {
	pm := &PresetManager{
		gdataManager: gdataManager,
		memory:       make(map[string][]byte),
	}

	if err := pm.loadIndex(); err != nil {
		// 索引损坏不是致命错误，从空列表开始
		log.Printf("[PresetManager] Warning: Failed to load preset index: %v (starting empty)", err)
		pm.names = nil
	}

	return pm
}

// Save 以 name 保存发射器描述，已存在时覆盖
func (pm *PresetManager) Save(name string, cfg *config.EmitterConfig) error {
	if err := validatePresetName(name); err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("preset %q: nil config", name)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	if pm.gdataManager == nil {
		pm.memory[name] = data
	} else if err := pm.gdataManager.SaveObjectProp(presetsObject, name, data); err != nil {
		return fmt.Errorf("failed to save preset %q: %w", name, err)
	}

	if !slices.Contains(pm.names, name) {
		pm.names = append(pm.names, name)
		slices.Sort(pm.names)
		if err := pm.saveIndex(); err != nil {
			return err
		}
	}

	log.Printf("[PresetManager] Preset %q saved", name)
	return nil
}

// Load 读取并验证名为 name 的预设
func (pm *PresetManager) Load(name string) (*config.EmitterConfig, error) {
	if err := validatePresetName(name); err != nil {
		return nil, err
	}

	var data []byte
	if pm.gdataManager == nil {
		d, ok := pm.memory[name]
		if !ok {
			return nil, fmt.Errorf("preset %q not found", name)
		}
		data = d
	} else {
		if !pm.gdataManager.ObjectPropExists(presetsObject, name) {
			return nil, fmt.Errorf("preset %q not found", name)
		}
		d, err := pm.gdataManager.LoadObjectProp(presetsObject, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset %q: %w", name, err)
		}
		data = d
	}

	cfg, err := config.ParseEmitterConfig(data)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return cfg, nil
}

// Exists 检查预设是否存在
func (pm *PresetManager) Exists(name string) bool {
	return slices.Contains(pm.names, name)
}

// Delete 删除预设，不存在时返回 nil
func (pm *PresetManager) Delete(name string) error {
	idx := slices.Index(pm.names, name)
	if idx < 0 {
		return nil
	}

	if pm.gdataManager == nil {
		delete(pm.memory, name)
	} else if err := pm.gdataManager.DeleteObjectProp(presetsObject, name); err != nil {
		return fmt.Errorf("failed to delete preset %q: %w", name, err)
	}

	pm.names = slices.Delete(pm.names, idx, idx+1)
	if err := pm.saveIndex(); err != nil {
		return err
	}

	log.Printf("[PresetManager] Preset %q deleted", name)
	return nil
}

// Names 返回全部预设名（已排序）
func (pm *PresetManager) Names() []string {
	return slices.Clone(pm.names)
}

func (pm *PresetManager) loadIndex() error {
	if pm.gdataManager == nil || !pm.gdataManager.ObjectPropExists(presetsObject, presetIndex) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(presetsObject, presetIndex)
	if err != nil {
		return fmt.Errorf("failed to load preset index: %w", err)
	}

	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("failed to unmarshal preset index: %w", err)
	}
	slices.Sort(names)
	pm.names = slices.Compact(names)
	return nil
}

func (pm *PresetManager) saveIndex() error {
	if pm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.names)
	if err != nil {
		return fmt.Errorf("failed to marshal preset index: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(presetsObject, presetIndex, data); err != nil {
		return fmt.Errorf("failed to save preset index: %w", err)
	}
	return nil
}

// validatePresetName 预设名会成为存储属性名
func validatePresetName(name string) error {
	if name == "" {
		return fmt.Errorf("empty preset name")
	}
	if name == presetIndex {
		return fmt.Errorf("preset name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) || strings.TrimSpace(name) != name {
		return fmt.Errorf("invalid preset name %q", name)
	}
	return nil
}
