package rce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SatVap(t *testing.T) {
	// 三重点付近の飽和水蒸気圧 [hPa]
	assert.InDelta(t, 6.1078, SatVap(273.16), 1e-3)
	assert.InDelta(t, 6.1173, SatVap(273.1599999), 1e-3)

	// 水/氷の切り替えで大きく不連続とならない
	assert.InDelta(t, SatVap(273.16), SatVap(273.1599999), 0.02)

	assert.InDelta(t, 35.315, SatVap(300), 1e-2)
	assert.InDelta(t, 0.5398, SatVap(250), 1e-3)
}

func Test_SatMixRat(t *testing.T) {
	assert.InDelta(t, Eps*SatVap(288)/1000, SatMixRat(288, 1000), 1e-12)
	// 気圧が低いほど大きい
	assert.Greater(t, SatMixRat(288, 500), SatMixRat(288, 1000))
}

func Test_Q2RH_RH2Q(t *testing.T) {
	T := []float64{220, 260, 300}
	p := []float64{100, 500, 1000}
	rh := []float64{0.1, 0.5, 0.8}

	q := RH2Q(rh, T, p)
	assert.InDelta(t, 0.8*SatMixRat(300, 1000), q[2], 1e-12)
	assert.InDeltaSlice(t, rh, Q2RH(q, T, p), 1e-12)
}

func Test_EnforceQGradient(t *testing.T) {
	// 上層ほど大きい場合は下層の値で置き換える
	q := []float64{1e-2, 5e-3, 1e-3}
	assert.InDeltaSlice(t, []float64{1e-3, 1e-3, 1e-3}, EnforceQGradient(q), 1e-15)

	// 下限値
	q = []float64{1e-7, 1e-3, 1e-2}
	out := EnforceQGradient(q)
	assert.InDeltaSlice(t, []float64{QMin, 1e-3, 1e-2}, out, 1e-15)

	// 引数は変更しない
	assert.Equal(t, 1e-7, q[0])

	assert.Empty(t, EnforceQGradient(nil))
}

func Test_clamp(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, clampRH([]float64{-0.1, 0.5, 1.2}))
	assert.Equal(t, []float64{TMin, 288, TMax}, clampTs([]float64{50, 288, 400}))
	assert.Equal(t, []float64{0, 1e-6}, floorZero([]float64{-1e-6, 1e-6}))
}

func Test_virtualTemperature(t *testing.T) {
	assert.Equal(t, 288.0, virtualTemperature(288, 0))
	// 湿潤空気は乾燥空気より軽い
	assert.Greater(t, virtualTemperature(288, 1e-2), 288.0)
	assert.InDelta(t, 288*(1+0.608*1e-2), virtualTemperature(288, 1e-2), 1e-2)
}
