package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udawtr/rce1d-go/rce"
)

// 引数の既定値 (未指定)
func unsetOverrides() overrides {
	return overrides{timestep: -1, maxsteps: -1, lapserate: -1}
}

func Test_overrides_unset(t *testing.T) {
	cfg := rce.DefaultConfig()
	args := unsetOverrides()
	args.apply(cfg)
	assert.Equal(t, rce.DefaultConfig(), cfg)
}

func Test_overrides_apply(t *testing.T) {
	cfg := rce.DefaultConfig()
	args := unsetOverrides()
	args.solver = "radeq"
	args.nlev = 11
	args.timestep = 0.5
	args.maxsteps = 20
	args.lapserate = 5
	args.holdtsfc = true
	args.co2 = []float64{280, 560}
	args.plot = "out.png"
	args.apply(cfg)

	assert.Equal(t, "radeq", cfg.Solver.Kind)
	assert.Equal(t, 11, cfg.Atmosphere.Grid.N)
	assert.Equal(t, 0.5, cfg.Solver.Timestep)
	assert.Equal(t, 20, cfg.Solver.MaxSteps)
	assert.Equal(t, 5.0, cfg.Solver.LapseRate)
	assert.True(t, cfg.Solver.HoldTsfc)
	assert.Equal(t, []float64{280, 560}, cfg.Sweep.CO2)
	assert.Equal(t, "out.png", cfg.Output.Plot)
}

// 気温減率 0 (等温) も指定できる
func Test_overrides_zeroLapseRate(t *testing.T) {
	cfg := rce.DefaultConfig()
	args := unsetOverrides()
	args.lapserate = 0
	args.apply(cfg)
	assert.Equal(t, 0.0, cfg.Solver.LapseRate)

	s, err := cfg.BuildSolver(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.LapseRate())

	// 時間刻み 0 は黙って無視せずエラーとする
	args.timestep = 0
	args.apply(cfg)
	_, err = cfg.BuildSolver(nil)
	assert.ErrorIs(t, err, rce.ErrInvalidOption)
}

func Test_writePlot(t *testing.T) {
	atm, err := rce.NewAtmosphere(rce.GridStagger(false), rce.Levels([]float64{10, 100, 300, 600, 1000}))
	require.NoError(t, err)
	s, err := rce.NewSolver(rce.KindRad, rce.NewGrayModel())
	require.NoError(t, err)
	res, err := s.Solve(atm, rce.DefaultChemParm(), rce.DefaultLWParm(), rce.DefaultSWParm())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.png")
	require.NoError(t, writePlot(path, []rce.Series{{Label: "gray", Result: res}}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))

	// 系列がない場合と保存先がない場合
	assert.ErrorIs(t, writePlot(path, nil), rce.ErrInvalidOption)
	assert.Error(t, writePlot(filepath.Join(t.TempDir(), "missing", "profile.png"), []rce.Series{{Label: "gray", Result: res}}))
}

func Test_sweepPath(t *testing.T) {
	assert.Equal(t, "out.csv", sweepPath("out.csv", 280, false))
	assert.Equal(t, "out_co2_280.csv", sweepPath("out.csv", 280, true))
	assert.Equal(t, "out_co2_712.5.csv", sweepPath("out.csv", 712.5, true))
}
