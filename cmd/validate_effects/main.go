// Package main validates emitter descriptors and reports how they behave when
// simulated headlessly.
//
// Usage:
//
//	go run ./cmd/validate_effects [flags] [file.yaml|dir ...]
//
// Without arguments the bundled effects are checked.
//
// Flags:
//
//	--simulate <seconds>  Simulated time per effect (default 3)
//	--fps <n>             Simulation steps per second (default 60)
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/decker502/particlefx/effects"
	"github.com/decker502/particlefx/pkg/config"
)

var (
	simulateFlag = flag.Float64("simulate", 3, "Simulated seconds per effect")
	fpsFlag      = flag.Int("fps", 60, "Simulation steps per second")
)

// effectSource 待验证的效果
type effectSource struct {
	name string
	load func() (*config.EmitterConfig, error)
}

// simulationReport 模拟结果
type simulationReport struct {
	peak      int
	final     int
	capacity  int
	completed bool
}

func main() {
	flag.Parse()

	if *fpsFlag <= 0 || *simulateFlag < 0 {
		fmt.Printf("❌ 参数无效: --fps 必须 > 0, --simulate 必须 >= 0\n")
		os.Exit(2)
	}

	sources, err := collectSources(flag.Args())
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if len(sources) == 0 {
		fmt.Printf("❌ 没有找到效果文件\n")
		os.Exit(1)
	}

	failed := 0
	for _, src := range sources {
		cfg, err := src.load()
		if err != nil {
			fmt.Printf("❌ %s: %v\n", src.name, err)
			failed++
			continue
		}

		report, err := simulate(cfg, *simulateFlag, *fpsFlag)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", src.name, err)
			failed++
			continue
		}

		status := "running"
		if report.completed {
			status = "completed"
		}
		fmt.Printf("✅ %s: %d behaviors, peak %s/%s particles, %s at end (%s)\n",
			src.name, len(cfg.Behaviors),
			humanize.Comma(int64(report.peak)), humanize.Comma(int64(report.capacity)),
			humanize.Comma(int64(report.final)), status)
		if report.peak >= report.capacity {
			fmt.Printf("   ⚠️  %s 达到粒子池上限，考虑增大 maxParticles\n", src.name)
		}
	}

	fmt.Printf("\n共 %d 个效果，失败 %d 个\n", len(sources), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// collectSources 展开参数中的文件和目录，无参数时使用内置效果
func collectSources(args []string) ([]effectSource, error) {
	var sources []effectSource

	if len(args) == 0 {
		for _, name := range effects.Names() {
			sources = append(sources, effectSource{
				name: name,
				load: func() (*config.EmitterConfig, error) { return effects.Load(name) },
			})
		}
		return sources, nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("无法访问 %s: %w", arg, err)
		}

		paths := []string{arg}
		if info.IsDir() {
			paths, err = filepath.Glob(filepath.Join(arg, "*.yaml"))
			if err != nil {
				return nil, fmt.Errorf("扫描目录 %s 失败: %w", arg, err)
			}
		}

		for _, path := range paths {
			sources = append(sources, effectSource{
				name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
				load: func() (*config.EmitterConfig, error) { return config.LoadEmitterConfig(path) },
			})
		}
	}
	return sources, nil
}

// simulate 以固定步长运行发射器，记录粒子数峰值
func simulate(cfg *config.EmitterConfig, seconds float64, fps int) (simulationReport, error) {
	e, err := cfg.NewEmitter()
	if err != nil {
		return simulationReport{}, err
	}

	report := simulationReport{capacity: e.Capacity()}
	e.PlayOnce(func() { report.completed = true })

	dt := 1.0 / float64(fps)
	steps := int(seconds * float64(fps))
	for i := 0; i < steps; i++ {
		e.Update(dt)
		report.peak = max(report.peak, e.ParticleCount())
	}
	report.final = e.ParticleCount()

	return report, nil
}
