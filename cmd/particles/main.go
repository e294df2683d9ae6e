// Package main provides a particle effect viewer for authoring and debugging
// emitter descriptors.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <file>       Viewer settings in gcfg format (window, storage, viewer sections)
//	--effect <name|file>  Start with a bundled effect name or an emitter YAML file
//	--filter <keyword>    Initial filter by name (e.g., --filter=sp)
//	--verbose             Enable logging
//
// Controls:
//
//	Mouse Click       - Spawn effect at cursor position
//	Mouse Drag        - Move the most recently spawned emitter
//	Left/Right Arrow  - Switch to previous/next effect
//	Space             - Spawn effect at screen center
//	P                 - Toggle pause
//	F or /            - Enter search mode
//	R                 - Clear all emitters
//	S                 - Save current effect as a preset
//	L                 - Load the last saved preset
//	D                 - Delete the preset named after the current effect
//	+ / -             - Increase/decrease simulation speed
//	[ / ]             - Decrease/increase emitter rotation by 15°
//	\                 - Reset rotation offset to 0°
//	H                 - Toggle status overlay
//	F11               - Toggle fullscreen
//	Q/Escape          - Quit
//
// Search Mode (press F or /):
//
//	Type letters      - Filter effects by name
//	Backspace         - Delete last character
//	Enter/Escape      - Exit search mode
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/particlefx/effects"
	"github.com/decker502/particlefx/pkg/components"
	"github.com/decker502/particlefx/pkg/config"
	"github.com/decker502/particlefx/pkg/game"
	"github.com/decker502/particlefx/pkg/input"
	"github.com/decker502/particlefx/pkg/systems"
)

const (
	// 粒子贴图边长（像素）
	particleTextureSize = 16

	// 每次按键调整的旋转角度
	angleStep = 15.0

	// 每次按键调整的速度倍率
	timeScaleStep = 0.25
)

var (
	configFlag  = flag.String("config", "", "Viewer settings file (gcfg)")
	effectFlag  = flag.String("effect", "", "Bundled effect name or emitter YAML file")
	filterFlag  = flag.String("filter", "", "Initial filter by name keyword")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// ParticleViewerGame implements ebiten.Game interface for the particle viewer
type ParticleViewerGame struct {
	cfg            *config.ViewerConfig
	particleSystem *systems.ParticleSystem
	presets        *game.PresetManager
	settings       *game.SettingsManager
	pointer        *input.PointerTracker
	texture        *ebiten.Image
	background     color.Color

	// Effect lists
	allEffectNames      []string                         // All available effect names
	filteredEffectNames []string                         // Currently filtered list
	currentIndex        int                              // Current effect index in filtered list
	effectConfigs       map[string]*config.EmitterConfig // 已加载的描述，预设加载后覆盖同名效果

	// Search mode
	searchMode  bool
	searchQuery string

	paused      bool
	angleOffset float64
	lastEmitter uuid.UUID // 拖拽移动的目标发射器

	statusMessage string
}

// NewParticleViewerGame creates a new particle viewer game instance
func NewParticleViewerGame(cfg *config.ViewerConfig) (*ParticleViewerGame, error) {
	gdataManager, err := gdata.Open(gdata.Config{AppName: cfg.Storage.AppName})
	if err != nil {
		// 无法持久化不是致命错误，预设和设置仅保存在内存中
		log.Printf("Warning: Failed to open storage %q: %v (presets will not persist)", cfg.Storage.AppName, err)
		gdataManager = nil
	}

	g := &ParticleViewerGame{
		cfg:            cfg,
		particleSystem: systems.NewParticleSystem(),
		presets:        game.NewPresetManager(gdataManager),
		settings:       game.NewSettingsManager(gdataManager),
		pointer:        input.NewPointerTracker(),
		texture:        newParticleTexture(particleTextureSize),
		background:     cfg.BackgroundColor(),
		allEffectNames: effects.Names(),
		effectConfigs:  make(map[string]*config.EmitterConfig),
	}

	startEffect := cfg.Viewer.Effect
	if *effectFlag != "" {
		startEffect = *effectFlag
	}

	// --effect 指向文件时加入列表
	if startEffect != "" && isEffectFile(startEffect) {
		effectCfg, err := config.LoadEmitterConfig(startEffect)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(startEffect), filepath.Ext(startEffect))
		g.effectConfigs[name] = effectCfg
		g.addEffectName(name)
		startEffect = name
	}

	if len(g.allEffectNames) == 0 {
		return nil, fmt.Errorf("no particle effects found")
	}

	g.searchQuery = *filterFlag
	g.filteredEffectNames = effects.Filter(g.allEffectNames, g.searchQuery)
	if len(g.filteredEffectNames) == 0 {
		log.Printf("Warning: No effects match initial filter %q, showing all", g.searchQuery)
		g.filteredEffectNames = g.allEffectNames
		g.searchQuery = ""
	}

	if i := slices.Index(g.filteredEffectNames, startEffect); i >= 0 {
		g.currentIndex = i
	}

	if g.settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	log.Printf("Particle Viewer initialized: %d effects, %d presets", len(g.allEffectNames), len(g.presets.Names()))
	g.spawnCurrentEffect(g.center())

	return g, nil
}

func isEffectFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	_, err := os.Stat(name)
	return err == nil
}

// newParticleTexture 生成中心不透明、边缘渐隐的圆形白色贴图，颜色由渲染时的 ColorScale 决定
func newParticleTexture(size int) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := math.Sqrt(dx*dx+dy*dy) / r
			if d >= 1 {
				continue
			}
			a := uint8(255 * (1 - d*d))
			// 预乘 alpha
			img.SetRGBA(x, y, color.RGBA{R: a, G: a, B: a, A: a})
		}
	}
	return ebiten.NewImageFromImage(img)
}

func (g *ParticleViewerGame) center() (float64, float64) {
	return float64(g.cfg.Window.Width) / 2, float64(g.cfg.Window.Height) / 2
}

func (g *ParticleViewerGame) addEffectName(name string) {
	if slices.Contains(g.allEffectNames, name) {
		return
	}
	g.allEffectNames = append(g.allEffectNames, name)
	slices.Sort(g.allEffectNames)
}

func (g *ParticleViewerGame) currentEffectName() string {
	if len(g.filteredEffectNames) == 0 {
		return ""
	}
	return g.filteredEffectNames[g.currentIndex]
}

// effectConfig 返回效果描述，首次访问时从内置效果加载
func (g *ParticleViewerGame) effectConfig(name string) (*config.EmitterConfig, error) {
	if cfg, ok := g.effectConfigs[name]; ok {
		return cfg, nil
	}
	cfg, err := effects.Load(name)
	if err != nil {
		return nil, err
	}
	g.effectConfigs[name] = cfg
	return cfg, nil
}

func (g *ParticleViewerGame) Update() error {
	if g.searchMode {
		return g.updateSearchMode()
	}

	return g.updateNormalMode()
}

func (g *ParticleViewerGame) updateSearchMode() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.searchMode = false
		g.statusMessage = fmt.Sprintf("Search: %q (%d results)", g.searchQuery, len(g.filteredEffectNames))
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if len(g.searchQuery) > 0 {
			g.searchQuery = g.searchQuery[:len(g.searchQuery)-1]
			g.applySearch()
		}
		return nil
	}

	runes := ebiten.AppendInputChars(nil)
	if len(runes) > 0 {
		for _, r := range runes {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				g.searchQuery += string(r)
			}
		}
		g.applySearch()
	}

	return nil
}

func (g *ParticleViewerGame) applySearch() {
	g.filteredEffectNames = effects.Filter(g.allEffectNames, g.searchQuery)
	g.currentIndex = 0
	log.Printf("Search query: %q, Results: %d", g.searchQuery, len(g.filteredEffectNames))
}

func (g *ParticleViewerGame) updateNormalMode() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return fmt.Errorf("quit requested")
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		g.searchMode = true
		g.statusMessage = "Search mode: Type to filter effects..."
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
		if g.paused {
			g.statusMessage = "PAUSED - Press P to resume"
		} else {
			g.statusMessage = "Resumed"
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.jumpEffects(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.jumpEffects(1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		n := g.particleSystem.Len()
		g.particleSystem.Clear()
		g.statusMessage = fmt.Sprintf("Cleared %d emitters", n)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.savePreset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.loadPreset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.deletePreset()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		g.changeTimeScale(timeScaleStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		g.changeTimeScale(-timeScaleStep)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.changeAngle(g.angleOffset - angleStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.changeAngle(g.angleOffset + angleStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackslash) {
		g.changeAngle(0)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.settings.SetShowStats(!g.settings.GetSettings().ShowStats)
		g.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		g.settings.SetFullscreen(fullscreen)
		g.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spawnCurrentEffect(g.center())
	}

	g.handlePointer()

	if !g.paused {
		dt := 1.0 / float64(ebiten.TPS())
		g.particleSystem.Update(dt * g.settings.GetSettings().TimeScale)
	}

	return nil
}

// handlePointer 点击生成发射器，拖拽移动最近生成的发射器
func (g *ParticleViewerGame) handlePointer() {
	ev := g.pointer.Update()
	x, y := g.pointer.Position()

	switch ev {
	case input.PointerClick:
		g.spawnCurrentEffect(float64(x), float64(y))
	case input.PointerDragStart, input.PointerDragMove:
		if e, ok := g.particleSystem.Get(g.lastEmitter); ok {
			e.UpdateOwnerPos(float64(x), float64(y))
		}
	}
}

func (g *ParticleViewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	g.drawParticles(screen)

	if g.settings.GetSettings().ShowStats {
		g.drawUI(screen)
	}
}

func (g *ParticleViewerGame) drawParticles(screen *ebiten.Image) {
	half := float64(particleTextureSize) / 2
	op := &ebiten.DrawImageOptions{}

	g.particleSystem.Each(func(p *components.Particle) {
		if p.Alpha <= 0 || p.Scale == 0 {
			return
		}

		op.GeoM.Reset()
		op.GeoM.Translate(-half, -half)
		op.GeoM.Scale(p.Scale, p.Scale)
		op.GeoM.Rotate(p.Rotation)
		op.GeoM.Translate(p.X, p.Y)

		// 贴图是预乘 alpha 的白色，直接按颜色和透明度缩放
		a := float32(p.Alpha)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(p.Tint.R)*a, float32(p.Tint.G)*a, float32(p.Tint.B)*a, a)

		screen.DrawImage(g.texture, op)
	})
}

func (g *ParticleViewerGame) drawUI(screen *ebiten.Image) {
	if len(g.filteredEffectNames) == 0 {
		ebitenutil.DebugPrintAt(screen, "No effects match current filter", 10, 10)
		return
	}

	title := fmt.Sprintf("Particle Viewer - Effect %d/%d: %s", g.currentIndex+1, len(g.filteredEffectNames), g.currentEffectName())
	ebitenutil.DebugPrintAt(screen, title, 10, 10)

	if g.searchQuery != "" {
		searchStatus := fmt.Sprintf("Filter: \"%s\" (%d/%d effects)", g.searchQuery, len(g.filteredEffectNames), len(g.allEffectNames))
		ebitenutil.DebugPrintAt(screen, searchStatus, 10, 30)
	}

	stats := fmt.Sprintf("Particles: %s  Emitters: %s  Speed: x%.2f  Rotation: %+.0f°  TPS: %.0f",
		humanize.Comma(int64(g.particleSystem.ParticleCount())),
		humanize.Comma(int64(g.particleSystem.Len())),
		g.settings.GetSettings().TimeScale,
		g.angleOffset,
		ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, stats, 10, 50)

	presetInfo := fmt.Sprintf("Presets: %d", len(g.presets.Names()))
	if last := g.settings.GetSettings().LastPreset; last != "" {
		presetInfo += fmt.Sprintf("  Last: %s", last)
	}
	ebitenutil.DebugPrintAt(screen, presetInfo, 10, 70)

	if g.searchMode {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SEARCH: %s_", g.searchQuery), 10, 90)
		ebitenutil.DebugPrintAt(screen, "(Type to filter, Backspace to delete, Enter/Esc to exit)", 10, 110)
	} else if g.statusMessage != "" {
		ebitenutil.DebugPrintAt(screen, g.statusMessage, 10, 90)
	}

	controls := []string{
		"Effects:  <-/-> = Prev/Next  F or / = Search  Click/Space = Spawn  Drag = Move  R = Clear",
		"Presets:  S = Save  L = Load  D = Delete     View: P = Pause  +/- = Speed  H = Hide  F11 = Fullscreen",
		"Rotation: [ = -15°  ] = +15°  \\ = Reset      Q = Quit",
	}
	y := g.cfg.Window.Height - len(controls)*20 - 10
	for i, line := range controls {
		ebitenutil.DebugPrintAt(screen, line, 10, y+i*20)
	}

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED (Press P to resume)", g.cfg.Window.Width-200, 10)
	}
}

func (g *ParticleViewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func (g *ParticleViewerGame) spawnCurrentEffect(x, y float64) {
	effectName := g.currentEffectName()
	if effectName == "" {
		g.statusMessage = "No effects to spawn"
		return
	}

	effectCfg, err := g.effectConfig(effectName)
	if err != nil {
		log.Printf("Failed to load effect %s: %v", effectName, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	e, err := effectCfg.NewEmitter()
	if err != nil {
		log.Printf("Failed to create effect %s: %v", effectName, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	e.UpdateOwnerPos(x, y)
	if g.angleOffset != 0 {
		e.Rotate(effectCfg.Rotation + g.angleOffset)
	}
	// 有限时长的效果播放完自动移除
	if effectCfg.EmitterLifetime > 0 {
		e.PlayOnceAndDestroy(nil)
	}

	g.lastEmitter = g.particleSystem.Add(e)
	g.enforceEmitterLimit()

	log.Printf("Spawned effect: %s at (%.0f, %.0f)", effectName, x, y)
	g.statusMessage = fmt.Sprintf("Spawned: %s", effectName)
}

// enforceEmitterLimit 超出上限时移除最早的发射器
func (g *ParticleViewerGame) enforceEmitterLimit() {
	limit := g.cfg.Viewer.MaxEmitters
	if limit <= 0 {
		return
	}
	ids := g.particleSystem.IDs()
	for i := 0; i < len(ids)-limit; i++ {
		g.particleSystem.Remove(ids[i])
	}
}

func (g *ParticleViewerGame) jumpEffects(delta int) {
	if len(g.filteredEffectNames) == 0 {
		return
	}
	g.currentIndex = (g.currentIndex + delta) % len(g.filteredEffectNames)
	if g.currentIndex < 0 {
		g.currentIndex += len(g.filteredEffectNames)
	}
	g.statusMessage = fmt.Sprintf("Effect: %s", g.currentEffectName())
	g.spawnCurrentEffect(g.center())
}

func (g *ParticleViewerGame) changeTimeScale(delta float64) {
	g.settings.SetTimeScale(g.settings.GetSettings().TimeScale + delta)
	g.statusMessage = fmt.Sprintf("Speed: x%.2f", g.settings.GetSettings().TimeScale)
	g.saveSettings()
}

// changeAngle 更新旋转偏移，已有发射器一起转动
func (g *ParticleViewerGame) changeAngle(offset float64) {
	g.angleOffset = offset
	for _, id := range g.particleSystem.IDs() {
		if e, ok := g.particleSystem.Get(id); ok {
			e.Rotate(e.Settings().Rotation + offset)
		}
	}
	g.statusMessage = fmt.Sprintf("Rotation offset: %.0f°", offset)
}

func (g *ParticleViewerGame) savePreset() {
	name := g.currentEffectName()
	effectCfg, err := g.effectConfig(name)
	if err != nil {
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	if err := g.presets.Save(name, effectCfg); err != nil {
		log.Printf("Failed to save preset %s: %v", name, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}
	g.settings.SetLastPreset(name)
	g.saveSettings()
	g.statusMessage = fmt.Sprintf("Saved preset: %s", name)
}

func (g *ParticleViewerGame) loadPreset() {
	name := g.settings.GetSettings().LastPreset
	if name == "" || !g.presets.Exists(name) {
		name = g.currentEffectName()
	}

	effectCfg, err := g.presets.Load(name)
	if err != nil {
		log.Printf("Failed to load preset %s: %v", name, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}

	g.effectConfigs[name] = effectCfg
	g.addEffectName(name)
	g.searchQuery = ""
	g.filteredEffectNames = g.allEffectNames
	g.currentIndex = slices.Index(g.filteredEffectNames, name)

	g.settings.SetLastPreset(name)
	g.saveSettings()
	g.spawnCurrentEffect(g.center())
	g.statusMessage = fmt.Sprintf("Loaded preset: %s", name)
}

func (g *ParticleViewerGame) deletePreset() {
	name := g.currentEffectName()
	if !g.presets.Exists(name) {
		g.statusMessage = fmt.Sprintf("No preset named %s", name)
		return
	}
	if err := g.presets.Delete(name); err != nil {
		log.Printf("Failed to delete preset %s: %v", name, err)
		g.statusMessage = fmt.Sprintf("Error: %v", err)
		return
	}
	if g.settings.GetSettings().LastPreset == name {
		g.settings.SetLastPreset("")
		g.saveSettings()
	}
	g.statusMessage = fmt.Sprintf("Deleted preset: %s", name)
}

func (g *ParticleViewerGame) saveSettings() {
	if err := g.settings.Save(); err != nil {
		log.Printf("Warning: Failed to save settings: %v", err)
	}
}

func main() {
	flag.Parse()

	// 默认静音运行，如需详细调试，传入 --verbose
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadViewerConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	viewer, err := NewParticleViewerGame(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil && err.Error() != "quit requested" {
		log.Fatal(err)
	}
}
