// rce1d
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akamensky/argparse"
	"github.com/dustin/go-humanize"
	"github.com/hhkbp2/go-logging"
	"github.com/udawtr/rce1d-go/rce"
	"github.com/udawtr/rce1d-go/store"
)

func main() {
	// コマンドライン引数の処理
	parser := argparse.NewParser("rce1d", "Computes 1-D radiative and radiative-convective equilibrium temperature profiles")

	config := parser.String("c", "config", &argparse.Options{
		Default: "",
		Help:    "設定ファイルのパス (YAML または TOML)"})

	solverKind := parser.Selector("s", "solver", rce.KindNames(), &argparse.Options{
		Help: "ソルバーの種類 放射計算のみ=rad, 放射平衡=radeq, 放射対流平衡=rce"})

	model := parser.Selector("m", "model", rce.ModelNames(), &argparse.Options{
		Help: "放射モデル"})

	profile := parser.String("p", "profile", &argparse.Options{
		Default: "",
		Help:    "標準大気プロファイルのファイルパス"})

	ozone := parser.String("", "ozone", &argparse.Options{
		Default: "",
		Help:    "オゾンプロファイルのファイルパス"})

	nlev := parser.Int("", "nlev", &argparse.Options{
		Default: 0,
		Help:    "気圧格子の境界の数"})

	timestep := parser.Float("", "timestep", &argparse.Options{
		Default: -1.0,
		Help:    "時間刻み [day]"})

	maxsteps := parser.Int("", "maxsteps", &argparse.Options{
		Default: -1,
		Help:    "最大反復回数"})

	lapserate := parser.Float("", "lapserate", &argparse.Options{
		Default: -1.0,
		Help:    "対流調節の気温減率 [K/km]"})

	holdtsfc := parser.Flag("", "holdtsfc", &argparse.Options{
		Help: "地表面温度を固定する"})

	co2 := parser.FloatList("", "co2", &argparse.Options{
		Help: "CO2濃度 [ppmv] (複数指定でスイープ)"})

	filename := parser.String("o", "output", &argparse.Options{
		Default: "",
		Help:    "CSV保存ファイルパス"})

	profileOut := parser.String("", "profile_out", &argparse.Options{
		Default: "",
		Help:    "標準大気プロファイル形式の保存ファイルパス"})

	plotOut := parser.String("", "plot", &argparse.Options{
		Default: "",
		Help:    "PNG保存ファイルパス"})

	dbPath := parser.String("", "db", &argparse.Options{
		Default: "",
		Help:    "計算結果を保存する SQLite ファイルパス"})

	label := parser.String("", "label", &argparse.Options{
		Default: "default",
		Help:    "保存する計算結果のラベル"})

	log := parser.Selector("", "log", []string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}, &argparse.Options{
		Default: "ERROR",
		Help:    "ログレベルの設定"})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	// ログレベル設定
	logger := logging.GetLogger(rce.LoggerName)
	if *log == "DEBUG" {
		logger.SetLevel(logging.LevelDebug)
	} else if *log == "INFO" {
		logger.SetLevel(logging.LevelInfo)
	} else if *log == "WARN" {
		logger.SetLevel(logging.LevelWarn)
	} else if *log == "ERROR" {
		logger.SetLevel(logging.LevelError)
	} else if *log == "CRITICAL" {
		logger.SetLevel(logging.LevelCritical)
	}

	// 設定
	cfg := rce.DefaultConfig()
	if *config != "" {
		cfg, err = rce.LoadConfig(*config)
		if err != nil {
			exitWithError(err)
		}
	}

	// 引数による上書き
	args := overrides{
		solver:     *solverKind,
		model:      *model,
		profile:    *profile,
		ozone:      *ozone,
		nlev:       *nlev,
		timestep:   *timestep,
		maxsteps:   *maxsteps,
		lapserate:  *lapserate,
		holdtsfc:   *holdtsfc,
		co2:        *co2,
		csv:        *filename,
		profileOut: *profileOut,
		plot:       *plotOut,
		db:         *dbPath,
	}
	args.apply(cfg)

	if err := run(cfg, *label); err != nil {
		exitWithError(err)
	}
}

// コマンドライン引数による設定の上書き
//
// 文字列は空、数値は負の場合に未指定とみなす。
type overrides struct {
	solver, model   string
	profile, ozone  string
	nlev            int
	timestep        float64
	maxsteps        int
	lapserate       float64
	holdtsfc        bool
	co2             []float64
	csv, profileOut string
	plot, db        string
}

func (o *overrides) apply(cfg *rce.Config) {
	if o.solver != "" {
		cfg.Solver.Kind = o.solver
	}
	if o.model != "" {
		cfg.Radiation.Model = o.model
	}
	if o.profile != "" {
		cfg.Atmosphere.Profile = o.profile
	}
	if o.ozone != "" {
		cfg.Atmosphere.Ozone = o.ozone
	}
	if o.nlev > 0 {
		if cfg.Atmosphere.Grid == nil {
			cfg.Atmosphere.Grid = rce.DefaultGrid()
		}
		cfg.Atmosphere.Grid.N = o.nlev
	}
	// 0 はソルバー作成時に検証する
	if o.timestep >= 0 {
		cfg.Solver.Timestep = o.timestep
	}
	if o.maxsteps >= 0 {
		cfg.Solver.MaxSteps = o.maxsteps
	}
	if o.lapserate >= 0 {
		cfg.Solver.LapseRate = o.lapserate
	}
	if o.holdtsfc {
		cfg.Solver.HoldTsfc = true
	}
	if len(o.co2) > 0 {
		cfg.Sweep.CO2 = o.co2
	}
	if o.csv != "" {
		cfg.Output.CSV = o.csv
	}
	if o.profileOut != "" {
		cfg.Output.Profile = o.profileOut
	}
	if o.plot != "" {
		cfg.Output.Plot = o.plot
	}
	if o.db != "" {
		cfg.Output.Store = o.db
	}
}

func exitWithError(err error) {
	logging.GetLogger(rce.LoggerName).Errorf("%v", err)
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// 設定に従って計算を行い、結果を保存する
func run(cfg *rce.Config, label string) error {
	logger := logging.GetLogger(rce.LoggerName)
	start := time.Now()

	base, err := cfg.BuildAtmosphere()
	if err != nil {
		return err
	}
	chem, lw, sw, err := cfg.Params()
	if err != nil {
		return err
	}

	var db *store.DB
	if cfg.Output.Store != "" {
		db, err = store.Open(cfg.Output.Store)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	co2s := cfg.Sweep.CO2
	if len(co2s) == 0 {
		co2s = []float64{chem.CO2}
	}
	sweep := len(co2s) > 1

	var series []rce.Series
	steps := 0
	for _, v := range co2s {
		atm := base.Clone()
		chem.CO2 = v

		solver, err := cfg.BuildSolver(atm)
		if err != nil {
			return err
		}
		res, err := solver.Solve(atm, chem, lw, sw)
		if err != nil {
			return err
		}
		steps += res.Steps

		name := fmt.Sprintf("CO2=%sppmv", humanize.Ftoa(v))
		logger.Infof("%s: %s (%s回) Tsfc=%.2f K", name, res.Status, humanize.Comma(int64(res.Steps)), atm.Tsfc())
		series = append(series, rce.Series{Label: name, Result: res})

		if db != nil {
			r, err := db.SaveRun(label, solver, chem, res)
			if err != nil {
				return err
			}
			logger.Infof("保存: %s", r.ID)
		}

		// CSV保存
		var buf *bytes.Buffer = bytes.NewBuffer([]byte{})
		res.ToCSV(buf)
		if cfg.Output.CSV == "" {
			if sweep {
				fmt.Printf("# %s\n", name)
			}
			fmt.Print(buf.String())
		} else {
			path := sweepPath(cfg.Output.CSV, v, sweep)
			logger.Infof("CSV保存: %s (%s)", path, humanize.Bytes(uint64(buf.Len())))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
		}

		if cfg.Output.Profile != "" {
			buf.Reset()
			atm.ToProfile(buf)
			path := sweepPath(cfg.Output.Profile, v, sweep)
			logger.Infof("プロファイル保存: %s", path)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return err
			}
		}
	}

	if cfg.Output.Plot != "" {
		if err := writePlot(cfg.Output.Plot, series); err != nil {
			return err
		}
		logger.Infof("図保存: %s", cfg.Output.Plot)
	}

	logger.Infof("計算が終了しました (%s回, %s)", humanize.Comma(int64(steps)), time.Since(start).Round(time.Millisecond))
	return nil
}

// PNG を保存する。書き込みと Close のどちらのエラーも返す。
func writePlot(path string, series []rce.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rce.WritePlot(f, series...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// スイープの場合はファイル名に CO2 濃度を付ける
func sweepPath(path string, co2 float64, sweep bool) string {
	if !sweep {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_co2_%s%s", strings.TrimSuffix(path, ext), humanize.Ftoa(co2), ext)
}
