package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/particlefx/effects"
	"github.com/decker502/particlefx/pkg/config"
)

func TestCollectSourcesBundled(t *testing.T) {
	sources, err := collectSources(nil)
	require.NoError(t, err)
	require.Len(t, sources, len(effects.Names()))

	for _, src := range sources {
		_, err := src.load()
		assert.NoError(t, err, src.name)
	}
}

func TestCollectSourcesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("lifetime: {min: 1, max: 1}\nfrequency: 0.1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("frequency: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	sources, err := collectSources([]string{dir})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a", sources[0].name)
	assert.Equal(t, "b", sources[1].name)

	_, err = sources[0].load()
	assert.NoError(t, err)
	_, err = sources[1].load()
	assert.Error(t, err)

	_, err = collectSources([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	cfg, err := config.ParseEmitterConfig([]byte(`
lifetime: {min: 0.5, max: 0.5}
frequency: 0.25
particlesPerWave: 2
maxParticles: 8
emitterLifetime: 1
`))
	require.NoError(t, err)

	report, err := simulate(cfg, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, report.capacity)
	assert.Equal(t, 4, report.peak)
	assert.Equal(t, 0, report.final)
	assert.True(t, report.completed)
}

func TestSimulateContinuous(t *testing.T) {
	cfg, err := config.ParseEmitterConfig([]byte(`
lifetime: {min: 10, max: 10}
frequency: 0.1
maxParticles: 5
`))
	require.NoError(t, err)

	report, err := simulate(cfg, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, report.peak, "pool limits the peak")
	assert.False(t, report.completed)
}
