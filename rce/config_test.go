package rce

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	atm, err := cfg.BuildAtmosphere()
	require.NoError(t, err)
	assert.False(t, atm.GridStagger())
	assert.Equal(t, 61, atm.Len())
	assert.Equal(t, 1.0, atm.PLev()[0])
	assert.Equal(t, 1000.0, atm.PLev()[60])

	s, err := cfg.BuildSolver(atm)
	require.NoError(t, err)
	assert.Equal(t, KindRCE, s.Kind())

	chem, lw, sw, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, DefaultChemParm(), chem)
	assert.Equal(t, DefaultLWParm(), lw)
	assert.Equal(t, DefaultSWParm(), sw)
}

func Test_GridConfig_Levels(t *testing.T) {
	plev, err := (&GridConfig{Top: 10, Bottom: 1000, N: 3, Log: true}).Levels()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 100, 1000}, plev, 1e-9)

	plev, err = (&GridConfig{Top: 100, Bottom: 1000, N: 4}).Levels()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{100, 400, 700, 1000}, plev, 1e-9)

	_, err = (&GridConfig{Top: 1000, Bottom: 10, N: 3}).Levels()
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = (&GridConfig{Top: 0, Bottom: 1000, N: 3, Log: true}).Levels()
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = (&GridConfig{Top: 10, Bottom: 1000, N: 1}).Levels()
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func Test_LoadConfig_yaml(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "radeq", cfg.Solver.Kind)
	assert.Equal(t, 0.5, cfg.Solver.Timestep)
	assert.Equal(t, 20, cfg.Solver.MaxSteps)
	assert.True(t, cfg.Solver.HoldTsfc)
	// 未指定の項目は既定値
	assert.Equal(t, DefaultTolerance, cfg.Solver.Tol)
	assert.Equal(t, DefaultLapseRate, cfg.Solver.LapseRate)

	assert.Equal(t, 712.0, cfg.Chem.CO2)
	assert.Equal(t, 0.21, cfg.Chem.O2)
	assert.Equal(t, 0.25, cfg.SW.Albedo)
	assert.Equal(t, 1361.0, cfg.SW.Scon)
	assert.Equal(t, []float64{280, 560}, cfg.Sweep.CO2)
	assert.Equal(t, "out.csv", cfg.Output.CSV)

	atm, err := cfg.BuildAtmosphere()
	require.NoError(t, err)
	assert.Equal(t, 11, atm.Len())
	assert.True(t, atm.HoldRH())
	assert.Equal(t, 290.0, atm.Tsfc())
	assert.InDelta(t, 0.77, atm.RH()[10], 1e-12)

	s, err := cfg.BuildSolver(atm)
	require.NoError(t, err)
	assert.Equal(t, KindRadEq, s.Kind())
	assert.Equal(t, 0.5, s.Timestep())
	assert.True(t, s.HoldTsfc())

	// 太陽位置
	_, _, sw, err := cfg.Params()
	require.NoError(t, err)
	assert.InDelta(t, 2/math.Pi, sw.Coszen, 1e-12)
	assert.InDelta(t, 0.5, sw.Fday, 1e-12)
	assert.Equal(t, 0.25, sw.Albedo)
}

func Test_LoadConfig_toml(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.toml")
	require.NoError(t, err)

	assert.Equal(t, "rce", cfg.Solver.Kind)
	assert.Equal(t, 5.0, cfg.Solver.LapseRate)
	assert.Equal(t, DefaultMaxSteps, cfg.Solver.MaxSteps)
	assert.Equal(t, 0.9, cfg.LW.Emis)

	// プロファイルの格子、層が主格子
	atm, err := cfg.BuildAtmosphere()
	require.NoError(t, err)
	assert.True(t, atm.GridStagger())
	assert.Equal(t, []float64{10, 100, 500, 1000}, atm.PLev())
	assert.InDelta(t, 5e-6*(1000-55)/990, atm.O3()[0], 1e-15)

	s, err := cfg.BuildSolver(atm)
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.LapseRate())
}

func Test_Config_errors(t *testing.T) {
	_, err := LoadConfig("testdata/missing.yaml")
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Atmosphere.RH = "dry"
	_, err = cfg.BuildAtmosphere()
	assert.ErrorIs(t, err, ErrInvalidOption)

	cfg = DefaultConfig()
	cfg.Solver.Kind = "unknown"
	_, err = cfg.BuildSolver(nil)
	assert.ErrorIs(t, err, ErrUnknownSolver)

	cfg = DefaultConfig()
	cfg.Radiation.Model = "rrtmg"
	_, err = cfg.BuildSolver(nil)
	assert.ErrorIs(t, err, ErrModelUnavailable)

	cfg = DefaultConfig()
	cfg.Solar = &SolarConfig{Lat: 35, Date: "2010/06/21"}
	_, _, _, err = cfg.Params()
	assert.ErrorIs(t, err, ErrInvalidOption)

	cfg.Solar = &SolarConfig{Lat: 35}
	_, _, _, err = cfg.Params()
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func Test_Config_solarDate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solar = &SolarConfig{Lat: 0, Date: "2010-12-22"}
	_, _, sw, err := cfg.Params()
	require.NoError(t, err)

	// 近日点付近では太陽定数が大きくなる
	assert.InDelta(t, 1361*1.032139, sw.Scon, 1e-2)
	assert.InDelta(t, 0.5, sw.Fday, 1e-12)

	// 元の設定は変更しない
	assert.Equal(t, 1361.0, cfg.SW.Scon)
}

func Test_Config_auxHR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.AuxHR = "testdata/hr.dat"
	atm, err := cfg.BuildAtmosphere()
	require.NoError(t, err)

	s, err := cfg.BuildSolver(atm)
	require.NoError(t, err)
	require.NotNil(t, s.AuxHR())
	assert.Equal(t, atm.Len(), s.AuxHR().Len())
}
