package rce

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ソルバーの種類
type Kind int

const (
	KindRad   Kind = iota + 1 // 放射計算のみ (1回)
	KindRadEq                 // 放射平衡
	KindRCE                   // 放射対流平衡
)

var kindNames = map[Kind]string{
	KindRad:   "rad",
	KindRadEq: "radeq",
	KindRCE:   "rce",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindNames は指定できるソルバー名の一覧
func KindNames() []string {
	return []string{"rad", "radeq", "rce"}
}

// 名前からソルバーの種類を求める
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("solver kind is required: %w", ErrUnknownSolver)
	}
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownSolver)
}

// 計算の終了状態
type Status int

const (
	StatusNone      Status = iota // 未実行
	StatusCompleted               // 放射計算のみ完了
	StatusConverged               // 収束
	StatusExhausted               // 最大反復回数に到達
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusConverged:
		return "converged"
	case StatusExhausted:
		return "exhausted"
	default:
		return "none"
	}
}

// ソルバーの既定値
const (
	DefaultTimestep  = 0.25 // [day]
	DefaultTolerance = 1e-2 // [K]
	DefaultMaxSteps  = 3000
	DefaultLapseRate = 6.5  // [K/km]
	DefaultPMaxRef   = 10.0 // 収束判定の対象とする最小気圧 [hPa]
)

// 平衡計算のソルバー
//
// 大気プロファイルの状態は持たず、Solve に渡された Atmosphere を更新する。
type Solver struct {
	kind      Kind
	model     Model
	timestep  float64      // 時間刻み [day]
	tol       float64      // 収束判定の閾値 [K]
	maxSteps  int          // 最大反復回数
	holdTsfc  bool         // 地表面温度を固定するかどうか
	auxHR     *HeatingRate // 放射以外の加熱率
	lapseRate float64      // 対流調節の気温減率 [K/km]
	pmaxRef   float64      // 収束判定の対象とする最小気圧 [hPa]
}

// SolverOption は NewSolver の引数
type SolverOption func(*Solver) error

// 時間刻み [day]
func Timestep(dt float64) SolverOption {
	return func(s *Solver) error {
		if !(dt > 0) {
			return fmt.Errorf("timestep %g: %w", dt, ErrInvalidOption)
		}
		s.timestep = dt
		return nil
	}
}

// 収束判定の閾値 [K]
func Tolerance(tol float64) SolverOption {
	return func(s *Solver) error {
		if tol < 0 {
			return fmt.Errorf("tolerance %g: %w", tol, ErrInvalidOption)
		}
		s.tol = tol
		return nil
	}
}

// 最大反復回数
func MaxSteps(n int) SolverOption {
	return func(s *Solver) error {
		if n < 1 {
			return fmt.Errorf("maxsteps %d: %w", n, ErrInvalidOption)
		}
		s.maxSteps = n
		return nil
	}
}

// 地表面温度を固定する
func HoldTsfc(v bool) SolverOption {
	return func(s *Solver) error {
		s.holdTsfc = v
		return nil
	}
}

// 放射以外の加熱率を加える
func AuxHeatingRate(hr *HeatingRate) SolverOption {
	return func(s *Solver) error {
		s.auxHR = hr
		return nil
	}
}

// 対流調節の気温減率 [K/km]
func LapseRate(lr float64) SolverOption {
	return func(s *Solver) error {
		if lr < 0 {
			return fmt.Errorf("lapse rate %g: %w", lr, ErrInvalidOption)
		}
		s.lapseRate = lr
		return nil
	}
}

// 収束判定の対象とする最小気圧 [hPa]
func ConvergencePressure(p float64) SolverOption {
	return func(s *Solver) error {
		s.pmaxRef = p
		return nil
	}
}

// """ソルバーを作成する
// Args:
//
//	kind(Kind): ソルバーの種類
//	model(Model): 放射モデル
//	opts(...SolverOption): 時間刻みなどの設定
//
// Returns:
//
//	*Solver: ソルバー
//	error: 設定エラー
//
// """
func NewSolver(kind Kind, model Model, opts ...SolverOption) (*Solver, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownSolver)
	}
	if model == nil {
		return nil, ErrMissingModel
	}
	s := &Solver{
		kind:      kind,
		model:     model,
		timestep:  DefaultTimestep,
		tol:       DefaultTolerance,
		maxSteps:  DefaultMaxSteps,
		lapseRate: DefaultLapseRate,
		pmaxRef:   DefaultPMaxRef,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Solver) Kind() Kind { return s.kind }
func (s *Solver) Timestep() float64 { return s.timestep }
func (s *Solver) Tolerance() float64 { return s.tol }
func (s *Solver) MaxSteps() int { return s.maxSteps }
func (s *Solver) HoldTsfc() bool { return s.holdTsfc }
func (s *Solver) LapseRate() float64 { return s.lapseRate }
func (s *Solver) AuxHR() *HeatingRate { return s.auxHR }
func (s *Solver) ConvergencePressure() float64 { return s.pmaxRef }

// 計算結果
type Result struct {
	Atmosphere *Atmosphere
	Flux       *Flux
	HR         *HeatingRate
	Status     Status
	Steps      int     // 反復回数
	MaxDT      float64 // 最後の反復での最大気温変化 [K]
}

func (r *Result) Converged() bool {
	return r.Status == StatusConverged
}

// 1ステップの更新
type stepFunc func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, *HeatingRate, error)

// 1ステップ後に行う処理
type postFunc func(atm *Atmosphere) error

// ソルバーの種類に応じた1ステップの更新を組み立てる
func (s *Solver) step() stepFunc {
	switch s.kind {
	case KindRadEq:
		return s.radEqStep
	case KindRCE:
		return chain(s.radEqStep, s.convectiveAdjustment)
	default:
		return s.radStep
	}
}

func chain(step stepFunc, post ...postFunc) stepFunc {
	return func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, *HeatingRate, error) {
		flx, hr, err := step(atm, chem, lw, sw)
		if err != nil {
			return nil, nil, err
		}
		for _, f := range post {
			if err := f(atm); err != nil {
				return nil, nil, err
			}
		}
		return flx, hr, nil
	}
}

// 放射フラックスと加熱率の計算
func (s *Solver) radStep(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, *HeatingRate, error) {
	flx, err := s.model.Radiation(atm, chem, lw, sw)
	if err != nil {
		return nil, nil, fmt.Errorf("radiation: %w", err)
	}
	if flx.Len() != len(atm.plev) {
		return nil, nil, &FieldError{Field: "flux", Err: ErrLengthMismatch}
	}
	return flx, HeatingRates(atm, flx), nil
}

// 加熱率による気温の更新と地表面温度の緩和
func (s *Solver) radEqStep(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, *HeatingRate, error) {
	flx, hr, err := s.radStep(atm, chem, lw, sw)
	if err != nil {
		return nil, nil, err
	}

	net := hr.Net()
	if s.auxHR != nil {
		floats.Add(net, s.auxHR.Net())
	}
	t := atm.T()
	floats.AddScaled(t, s.timestep, net)
	if err := atm.SetT(t); err != nil {
		return nil, nil, err
	}

	if !s.holdTsfc {
		if err := s.relaxSurface(atm, flx); err != nil {
			return nil, nil, err
		}
	}
	return flx, hr, nil
}

// 大気上端の放射収支に応じて地表面温度を緩和する
func (s *Solver) relaxSurface(atm *Atmosphere, flx *Flux) error {
	olr := flx.OLR()
	if olr == 0 {
		logger().Debugf("OLR=0 のため地表面温度の緩和を行いません")
		return nil
	}
	ffac := 0.2 * s.timestep

	tsfcOld := atm.Tsfc()
	atm.SetTsfc(tsfcOld * (1 - ffac*flx.TOA()/olr))
	dtsfc := atm.Tsfc() - tsfcOld
	atm.SetTsfc(atm.Tsfc() + dtsfc)

	// 地表面温度が下がった場合は対流圏の気温も下げる
	if dtsfc < 0 {
		p := atm.pPrimary()
		pcold := atm.Pcold()
		t := atm.T()
		for i := range t {
			if p[i] >= pcold {
				t[i] += dtsfc
			}
		}
		return atm.SetT(t)
	}
	return nil
}

// 収束判定の対象とする格子点での最大気温変化
func (s *Solver) maxChange(atm *Atmosphere, told []float64) float64 {
	p := atm.pPrimary()
	t := atm.tPrimary()
	maxdt := 0.0
	for i := range t {
		if p[i] >= s.pmaxRef {
			maxdt = math.Max(maxdt, math.Abs(t[i]-told[i]))
		}
	}
	return maxdt
}

// """平衡状態を求める
// Args:
//
//	atm(*Atmosphere): 大気プロファイル (直接更新される)
//	chem(ChemParm): 大気組成
//	lw(LWParm): 長波放射のパラメータ
//	sw(SWParm): 短波放射のパラメータ
//
// Returns:
//
//	*Result: 計算結果。最大反復回数に達した場合も最後の状態を返す。
//	error: 放射モデルのエラーまたは設定エラー
//
// """
func (s *Solver) Solve(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Result, error) {
	if s.auxHR != nil && (s.auxHR.Len() != atm.Len() || len(s.auxHR.SW) != atm.Len()) {
		return nil, &FieldError{Field: "auxhr", Err: ErrLengthMismatch}
	}

	step := s.step()
	res := &Result{Atmosphere: atm}

	if s.kind == KindRad {
		flx, hr, err := step(atm, chem, lw, sw)
		if err != nil {
			return nil, err
		}
		res.Flux, res.HR = flx, hr
		res.Status = StatusCompleted
		res.Steps = 1
		return res, nil
	}

	if s.holdTsfc {
		logger().Infof("%s: 反復計算を開始します (地表面温度固定)", s.kind)
	} else {
		logger().Infof("%s: 反復計算を開始します", s.kind)
	}

	res.Status = StatusExhausted
	for i := 0; i < s.maxSteps; i++ {
		told := atm.T()
		flx, hr, err := step(atm, chem, lw, sw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Flux, res.HR = flx, hr
		res.Steps = i + 1
		res.MaxDT = s.maxChange(atm, told)
		logger().Debugf("step %d: max|dT|=%g K", i+1, res.MaxDT)

		if res.MaxDT <= s.tol {
			res.Status = StatusConverged
			break
		}
	}

	if res.Status == StatusConverged {
		logger().Infof("%s: 平衡状態に到達しました (%d回)", s.kind, res.Steps)
	} else {
		logger().Warnf("%s: 最大反復回数に到達しました (%d回)", s.kind, res.Steps)
	}
	return res, nil
}
