package rce

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// 計算条件の設定
type Config struct {
	Atmosphere AtmosphereConfig `yaml:"atmosphere" toml:"atmosphere"`
	Solver     SolverConfig     `yaml:"solver" toml:"solver"`
	Radiation  RadiationConfig  `yaml:"radiation" toml:"radiation"`
	Chem       ChemParm         `yaml:"chem" toml:"chem"`
	LW         LWParm           `yaml:"lw" toml:"lw"`
	SW         SWParm           `yaml:"sw" toml:"sw"`
	Solar      *SolarConfig     `yaml:"solar" toml:"solar"`
	Sweep      SweepConfig      `yaml:"sweep" toml:"sweep"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
}

// 大気プロファイルの設定
type AtmosphereConfig struct {
	Profile string      `yaml:"profile" toml:"profile"` // 標準大気プロファイルのファイル
	Grid    *GridConfig `yaml:"grid" toml:"grid"`       // 気圧格子 (未指定の場合はプロファイルの格子)
	Stagger *bool       `yaml:"stagger" toml:"stagger"` // 層を主格子とするかどうか
	HoldRH  *bool       `yaml:"holdrh" toml:"holdrh"`
	RH      string      `yaml:"rh" toml:"rh"`           // "manabe" または空
	Ozone   string      `yaml:"ozone" toml:"ozone"`     // オゾンプロファイルのファイル
	Tsfc    *float64    `yaml:"tsfc" toml:"tsfc"`       // 地表面温度 [K]
}

// 気圧格子の設定
type GridConfig struct {
	Top    float64 `yaml:"top" toml:"top"`       // 上端気圧 [hPa]
	Bottom float64 `yaml:"bottom" toml:"bottom"` // 地表気圧 [hPa]
	N      int     `yaml:"n" toml:"n"`           // 境界の数
	Log    bool    `yaml:"log" toml:"log"`       // 対数等間隔とするかどうか
}

// ソルバーの設定
type SolverConfig struct {
	Kind      string  `yaml:"kind" toml:"kind"`
	Timestep  float64 `yaml:"timestep" toml:"timestep"`   // [day]
	Tol       float64 `yaml:"tol" toml:"tol"`             // [K]
	MaxSteps  int     `yaml:"maxsteps" toml:"maxsteps"`
	HoldTsfc  bool    `yaml:"holdtsfc" toml:"holdtsfc"`
	LapseRate float64 `yaml:"lapserate" toml:"lapserate"` // [K/km]
	AuxHR     string  `yaml:"auxhr" toml:"auxhr"`         // 加熱率ファイル
}

type RadiationConfig struct {
	Model string `yaml:"model" toml:"model"`
}

// 太陽位置の設定。指定した場合は SW の Coszen と Fday を上書きする。
type SolarConfig struct {
	Lat  float64  `yaml:"lat" toml:"lat"`   // 緯度 [deg]
	Date string   `yaml:"date" toml:"date"` // 日付 (2006-01-02)
	Decl *float64 `yaml:"decl" toml:"decl"` // 太陽赤緯 [deg]
}

// パラメータスイープ
type SweepConfig struct {
	CO2 []float64 `yaml:"co2" toml:"co2"` // [ppmv]
}

// 出力先
type OutputConfig struct {
	CSV     string `yaml:"csv" toml:"csv"`
	Profile string `yaml:"profile" toml:"profile"`
	Plot    string `yaml:"plot" toml:"plot"`
	Store   string `yaml:"store" toml:"store"`
}

// 既定の設定
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Kind:      KindRCE.String(),
			Timestep:  DefaultTimestep,
			Tol:       DefaultTolerance,
			MaxSteps:  DefaultMaxSteps,
			LapseRate: DefaultLapseRate,
		},
		Radiation: RadiationConfig{Model: ModelGray.String()},
		Chem:      DefaultChemParm(),
		LW:        DefaultLWParm(),
		SW:        DefaultSWParm(),
	}
}

// 既定の気圧格子
func DefaultGrid() *GridConfig {
	return &GridConfig{Top: 1, Bottom: 1000, N: 61, Log: true}
}

// """設定ファイルを読み込む
// Args:
//
//	path(string): YAML または TOML (拡張子 .toml) のファイル
//
// Returns:
//
//	*Config: 未指定の項目は既定値
//
// """
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	logger().Infof("設定ファイル読み込み: %s", path)
	return cfg, nil
}

// 気圧格子 [hPa] を作成する
func (g *GridConfig) Levels() ([]float64, error) {
	if g.N < 2 || !(g.Top > 0) || !(g.Top < g.Bottom) {
		return nil, fmt.Errorf("grid top=%g bottom=%g n=%d: %w", g.Top, g.Bottom, g.N, ErrInvalidOption)
	}
	plev := make([]float64, g.N)
	if g.Log {
		floats.LogSpan(plev, g.Top, g.Bottom)
	} else {
		floats.Span(plev, g.Top, g.Bottom)
	}
	// 端点の丸め誤差を除く
	plev[0], plev[g.N-1] = g.Top, g.Bottom
	return plev, nil
}

// 設定から大気プロファイルを作成する
func (c *Config) BuildAtmosphere() (*Atmosphere, error) {
	ac := c.Atmosphere
	var opts []Option
	var plev []float64
	var pf *Profile

	if ac.Profile != "" {
		var err error
		pf, err = ReadProfile(ac.Profile)
		if err != nil {
			return nil, err
		}
		plev = pf.P
	}
	grid := ac.Grid
	if grid == nil && pf == nil {
		grid = DefaultGrid()
	}
	if grid != nil {
		var err error
		plev, err = grid.Levels()
		if err != nil {
			return nil, err
		}
		opts = append(opts, Levels(plev))
	}

	if ac.Stagger != nil {
		opts = append(opts, GridStagger(*ac.Stagger))
	} else if pf == nil {
		opts = append(opts, GridStagger(false))
	}
	if ac.HoldRH != nil {
		opts = append(opts, HoldRH(*ac.HoldRH))
	}
	if ac.Tsfc != nil {
		opts = append(opts, SurfaceTemperature(*ac.Tsfc))
	}
	switch strings.ToLower(ac.RH) {
	case "":
	case "manabe":
		opts = append(opts, RelativeHumidity(ManabeRH(plev)))
	default:
		return nil, fmt.Errorf("rh profile %q: %w", ac.RH, ErrInvalidOption)
	}

	var atm *Atmosphere
	var err error
	if pf != nil {
		atm, err = FromProfile(pf, opts...)
	} else {
		atm, err = NewAtmosphere(opts...)
	}
	if err != nil {
		return nil, err
	}

	if ac.Ozone != "" {
		if err := atm.SetOzoneFromFile(ac.Ozone); err != nil {
			return nil, err
		}
	}
	return atm, nil
}

// 設定からソルバーを作成する。加熱率ファイルは atm の格子に補間する。
func (c *Config) BuildSolver(atm *Atmosphere) (*Solver, error) {
	kind, err := ParseKind(c.Solver.Kind)
	if err != nil {
		return nil, err
	}
	model, err := NewModelByName(c.Radiation.Model)
	if err != nil {
		return nil, err
	}
	opts := []SolverOption{
		Timestep(c.Solver.Timestep),
		Tolerance(c.Solver.Tol),
		MaxSteps(c.Solver.MaxSteps),
		HoldTsfc(c.Solver.HoldTsfc),
		LapseRate(c.Solver.LapseRate),
	}
	if c.Solver.AuxHR != "" {
		hr, err := HeatingRateFromFile(c.Solver.AuxHR, atm)
		if err != nil {
			return nil, err
		}
		opts = append(opts, AuxHeatingRate(hr))
	}
	return NewSolver(kind, model, opts...)
}

// 設定から組成・放射パラメータを求める
func (c *Config) Params() (ChemParm, LWParm, SWParm, error) {
	sw := c.SW
	if c.Solar != nil {
		var decl float64
		switch {
		case c.Solar.Decl != nil:
			decl = *c.Solar.Decl
		case c.Solar.Date != "":
			date, err := time.Parse("2006-01-02", c.Solar.Date)
			if err != nil {
				return c.Chem, c.LW, sw, fmt.Errorf("solar date %q: %w", c.Solar.Date, ErrInvalidOption)
			}
			var dist float64
			decl, dist = Ephemeris(date)
			sw.Scon *= dist
		default:
			return c.Chem, c.LW, sw, fmt.Errorf("solar: date or decl is required: %w", ErrInvalidOption)
		}
		sw.ApplySolarGeometry(c.Solar.Lat, decl)
	}
	return c.Chem, c.LW, sw, nil
}
