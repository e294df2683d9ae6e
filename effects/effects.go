// Package effects 提供随程序一起打包的粒子效果描述
//
// 每个 *.yaml 文件是一个发射器描述，文件名（去掉扩展名）即效果名。
// 查看器在没有指定 -effect 时从这里选择效果。
package effects

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/decker502/particlefx/pkg/config"
)

//go:embed *.yaml
var effectsFS embed.FS

// Names 返回全部内置效果名（已排序）
func Names() []string {
	entries, err := fs.Glob(effectsFS, "*.yaml")
	if err != nil {
		// 模式是常量，只有语法错误才会失败
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry, path.Ext(entry)))
	}
	sort.Strings(names)
	return names
}

// ReadFile 返回内置效果的原始 YAML
func ReadFile(name string) ([]byte, error) {
	// 统一成 embed.FS 使用的文件名
	name = strings.TrimSuffix(path.Base(strings.ReplaceAll(name, "\\", "/")), ".yaml")

	data, err := effectsFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("effect %q not found: %w", name, err)
	}
	return data, nil
}

// Load 解析并验证内置效果
func Load(name string) (*config.EmitterConfig, error) {
	data, err := ReadFile(name)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ParseEmitterConfig(data)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", name, err)
	}
	return cfg, nil
}

// Filter 返回名称包含 query 的效果（大小写不敏感），query 为空时返回全部
func Filter(names []string, query string) []string {
	if query == "" {
		return names
	}

	queryLower := strings.ToLower(query)
	filtered := make([]string, 0)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), queryLower) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}
