package config

import (
	"fmt"
	"image/color"

	"gopkg.in/gcfg.v1"

	"github.com/decker502/particlefx/pkg/utils"
)

// ViewerConfig 粒子查看器启动配置
//
// ini 风格的 gcfg 文件，启动时读取一次。运行中修改的偏好
// （模拟速度、状态栏开关等）由 game.SettingsManager 持久化。
//
// 示例：
//
//	[window]
//	width = 1024
//	height = 768
//	title = Particle Viewer
//	background = "#19192a"
//
//	[storage]
//	appName = particlefx
//
//	[viewer]
//	maxEmitters = 32
type ViewerConfig struct {
	Window  WindowConfig
	Storage StorageConfig
	Viewer  ViewerOptions
}

// WindowConfig 窗口参数
type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Background string // 十六进制颜色 #rrggbb，gcfg 中 # 开始注释，需加引号或省略 #
}

// StorageConfig gdata 存储参数
type StorageConfig struct {
	// AppName gdata 应用名，决定预设和设置的存储目录
	AppName string
}

// ViewerOptions 查看器行为参数
type ViewerOptions struct {
	// MaxEmitters 同时存在的发射器上限，超出时移除最早的发射器
	MaxEmitters int

	// Effect 启动时选中的内置效果名
	Effect string
}

// DefaultViewerConfig 返回默认查看器配置
func DefaultViewerConfig() *ViewerConfig {
	return &ViewerConfig{
		Window: WindowConfig{
			Width:      1024,
			Height:     768,
			Title:      "Particle Viewer",
			Background: "#19192a",
		},
		Storage: StorageConfig{AppName: "particlefx"},
		Viewer:  ViewerOptions{MaxEmitters: 32},
	}
}

// LoadViewerConfig 加载查看器配置
//
// 参数：
//   - path: gcfg 文件路径，为空时返回默认配置
//
// 返回：
//   - *ViewerConfig: 在默认值之上合并文件内容后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	cfg := DefaultViewerConfig()
	if path == "" {
		return cfg, nil
	}

	if err := gcfg.ReadFileInto(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to read viewer config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewer config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseViewerConfig 从字符串解析查看器配置
func ParseViewerConfig(text string) (*ViewerConfig, error) {
	cfg := DefaultViewerConfig()
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, fmt.Errorf("failed to parse viewer config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewer config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置的有效性
func (c *ViewerConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := utils.HexToRGB(c.Window.Background); err != nil {
		return fmt.Errorf("invalid window background: %w", err)
	}
	if c.Storage.AppName == "" {
		return fmt.Errorf("storage appName must not be empty")
	}
	if c.Viewer.MaxEmitters < 0 {
		return fmt.Errorf("viewer maxEmitters must be >= 0, got %d", c.Viewer.MaxEmitters)
	}
	return nil
}

// BackgroundColor 返回窗口背景色，解析失败时返回黑色
func (c *ViewerConfig) BackgroundColor() color.Color {
	col, err := utils.HexToRGB(c.Window.Background)
	if err != nil {
		return color.Black
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
