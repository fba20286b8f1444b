package rce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// フラックスが常に0の放射モデル
var zeroModel = ModelFunc(func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
	n := len(atm.PLev())
	zero := make([]float64, n)
	return NewFlux(zero, zero, zero, zero), nil
})

func solve(t *testing.T, kind Kind, model Model, atm *Atmosphere, opts ...SolverOption) *Result {
	t.Helper()
	s, err := NewSolver(kind, model, opts...)
	require.NoError(t, err)
	res, err := s.Solve(atm, DefaultChemParm(), DefaultLWParm(), DefaultSWParm())
	require.NoError(t, err)
	return res
}

func Test_ParseKind(t *testing.T) {
	k, err := ParseKind("RCE")
	require.NoError(t, err)
	assert.Equal(t, KindRCE, k)

	k, err = ParseKind("radeq")
	require.NoError(t, err)
	assert.Equal(t, KindRadEq, k)
	assert.Equal(t, "radeq", k.String())

	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrUnknownSolver)
	_, err = ParseKind("rcemip")
	assert.ErrorIs(t, err, ErrUnknownSolver)

	assert.Equal(t, []string{"rad", "radeq", "rce"}, KindNames())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func Test_NewSolver(t *testing.T) {
	s, err := NewSolver(KindRadEq, zeroModel)
	require.NoError(t, err)
	assert.Equal(t, KindRadEq, s.Kind())
	assert.Equal(t, DefaultTimestep, s.Timestep())
	assert.Equal(t, DefaultTolerance, s.Tolerance())
	assert.Equal(t, DefaultMaxSteps, s.MaxSteps())
	assert.Equal(t, DefaultLapseRate, s.LapseRate())
	assert.Equal(t, DefaultPMaxRef, s.ConvergencePressure())
	assert.False(t, s.HoldTsfc())
	assert.Nil(t, s.AuxHR())

	_, err = NewSolver(Kind(9), zeroModel)
	assert.ErrorIs(t, err, ErrUnknownSolver)

	_, err = NewSolver(KindRad, nil)
	assert.ErrorIs(t, err, ErrMissingModel)

	_, err = NewSolver(KindRadEq, zeroModel, Timestep(0))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = NewSolver(KindRadEq, zeroModel, MaxSteps(0))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = NewSolver(KindRadEq, zeroModel, Tolerance(-1))
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = NewSolver(KindRCE, zeroModel, LapseRate(-1))
	assert.ErrorIs(t, err, ErrInvalidOption)
}

// 等温・乾燥大気に0フラックスを与えると加熱率は0
func Test_Solve_rad(t *testing.T) {
	atm, err := NewAtmosphere(GridStagger(false), Levels([]float64{10, 1000}))
	require.NoError(t, err)

	res := solve(t, KindRad, zeroModel, atm)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, []float64{0, 0}, res.HR.LW)
	assert.Equal(t, []float64{0, 0}, res.HR.SW)
	assert.Equal(t, []float64{TDefault, TDefault}, atm.T())
	assert.False(t, res.Converged())
}

// 高さとともに線形に減少する正味フラックスでは気温が単調に変化する
func Test_Solve_radeq(t *testing.T) {
	plev := []float64{10, 1000}
	atm, err := NewAtmosphere(GridStagger(false), Levels(plev))
	require.NoError(t, err)

	var history []float64
	model := ModelFunc(func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
		history = append(history, atm.T()[0])
		return linearFlux(atm.PLev(), 0.1), nil
	})

	res := solve(t, KindRadEq, model, atm, HoldTsfc(true), Timestep(0.25), Tolerance(0.01), MaxSteps(10))
	assert.Contains(t, []Status{StatusConverged, StatusExhausted}, res.Status)
	assert.LessOrEqual(t, res.Steps, 10)

	// 加熱率は一定なので収束しない
	assert.Equal(t, StatusExhausted, res.Status)
	assert.Equal(t, 10, res.Steps)
	assert.IsIncreasing(t, history)

	want := TDefault + 10*0.25*hrFactor*0.1
	assert.InDeltaSlice(t, []float64{want, want}, atm.T(), 1e-9)
	assert.InDelta(t, 0.25*hrFactor*0.1, res.MaxDT, 1e-9)
	assert.Equal(t, TDefault, atm.Tsfc())
}

func Test_Solve_radeq_converged(t *testing.T) {
	atm, err := NewAtmosphere(GridStagger(true), Levels([]float64{10, 100, 1000}))
	require.NoError(t, err)

	// OLR=0 の場合は地表面温度を緩和しない
	res := solve(t, KindRadEq, zeroModel, atm)
	assert.True(t, res.Converged())
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 0.0, res.MaxDT)
	assert.Equal(t, TDefault, atm.Tsfc())
}

func Test_Solve_auxHR(t *testing.T) {
	atm, err := NewAtmosphere(GridStagger(false), Levels([]float64{10, 1000}))
	require.NoError(t, err)

	aux := NewHeatingRate([]float64{1, 1}, []float64{0, 0})
	res := solve(t, KindRadEq, zeroModel, atm, HoldTsfc(true), AuxHeatingRate(aux), MaxSteps(1))
	assert.Equal(t, StatusExhausted, res.Status)
	assert.InDeltaSlice(t, []float64{TDefault + 0.25, TDefault + 0.25}, atm.T(), 1e-12)

	// 長さが主格子と一致しない
	s, err := NewSolver(KindRadEq, zeroModel, AuxHeatingRate(NewHeatingRate([]float64{1, 1, 1}, []float64{0, 0, 0})))
	require.NoError(t, err)
	_, err = s.Solve(atm, DefaultChemParm(), DefaultLWParm(), DefaultSWParm())
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func Test_Solve_errors(t *testing.T) {
	atm, err := NewAtmosphere(GridStagger(false), Levels([]float64{10, 1000}))
	require.NoError(t, err)

	failing := ModelFunc(func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
		return nil, ErrModelUnavailable
	})
	for _, kind := range []Kind{KindRad, KindRadEq, KindRCE} {
		s, err := NewSolver(kind, failing)
		require.NoError(t, err)
		_, err = s.Solve(atm, DefaultChemParm(), DefaultLWParm(), DefaultSWParm())
		assert.ErrorIs(t, err, ErrModelUnavailable, kind.String())
	}

	// フラックスの長さが境界の数と一致しない
	short := ModelFunc(func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
		return linearFlux([]float64{1, 2, 3}, 0), nil
	})
	s, err := NewSolver(KindRad, short)
	require.NoError(t, err)
	_, err = s.Solve(atm, DefaultChemParm(), DefaultLWParm(), DefaultSWParm())
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func Test_relaxSurface(t *testing.T) {
	s, err := NewSolver(KindRadEq, zeroModel)
	require.NoError(t, err)

	// 大気上端で上向きの収支: 地表面温度を2回下げ、対流圏の気温も下げる
	atm, err := NewAtmosphere(GridStagger(false), Levels([]float64{10, 100, 1000}))
	require.NoError(t, err)
	flx := NewFlux(
		[]float64{240, 240, 240},
		[]float64{0, 0, 0},
		[]float64{100, 100, 100},
		[]float64{316, 316, 316},
	)
	require.InDelta(t, 24.0, flx.TOA(), 1e-12)
	require.NoError(t, s.relaxSurface(atm, flx))
	assert.InDelta(t, 288-2*1.44, atm.Tsfc(), 1e-9)
	assert.InDeltaSlice(t, []float64{288 - 1.44, 288 - 1.44, 288 - 1.44}, atm.T(), 1e-9)

	// 大気上端で下向きの収支: 地表面温度のみ上げる
	atm, err = NewAtmosphere(GridStagger(false), Levels([]float64{10, 100, 1000}))
	require.NoError(t, err)
	flx = NewFlux(
		[]float64{240, 240, 240},
		[]float64{0, 0, 0},
		[]float64{100, 100, 100},
		[]float64{364, 364, 364},
	)
	require.NoError(t, s.relaxSurface(atm, flx))
	assert.InDelta(t, 288+2*1.44, atm.Tsfc(), 1e-9)
	assert.Equal(t, []float64{288, 288, 288}, atm.T())
}

// 地表に接する格子点の気温は対流平衡の気温を下回らない
func Test_Solve_rce(t *testing.T) {
	plev := []float64{10, 100, 300, 600, 1000}
	atm, err := NewAtmosphere(GridStagger(false), Levels(plev), SurfaceTemperature(300))
	require.NoError(t, err)

	calls := 0
	model := ModelFunc(func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
		calls++
		if calls > 1 {
			n := atm.Len() - 1
			assert.GreaterOrEqual(t, atm.T()[n], ConvectiveProfile(atm, 6.5)[n]-1e-9)
		}
		return zeroModel(atm, chem, lw, sw)
	})

	res := solve(t, KindRCE, model, atm, LapseRate(6.5), MaxSteps(50))
	assert.True(t, res.Converged())
	assert.Equal(t, 2, res.Steps)

	tconv := ConvectiveProfile(atm, 6.5)
	tt := atm.T()
	assert.InDelta(t, 300.0, tt[4], 1e-9)
	assert.InDelta(t, tconv[3], tt[3], 1e-9)
	for i := 0; i < 3; i++ {
		assert.Equal(t, TDefault, tt[i])
	}
	for i := range tt {
		assert.GreaterOrEqual(t, tt[i], tconv[i]-1e-9)
	}

	assert.True(t, atm.IconvSet())
	assert.Equal(t, 2, atm.Iconv())
	assert.Equal(t, 300.0, atm.Tsfc())

	// 平衡状態から再計算しても変わらない
	again := solve(t, KindRCE, zeroModel, atm, LapseRate(6.5))
	assert.Equal(t, 1, again.Steps)
	assert.True(t, again.Converged())
	assert.Equal(t, tt, atm.T())
}

func Test_Status_String(t *testing.T) {
	assert.Equal(t, "none", StatusNone.String())
	assert.Equal(t, "completed", StatusCompleted.String())
	assert.Equal(t, "converged", StatusConverged.String())
	assert.Equal(t, "exhausted", StatusExhausted.String())
}
