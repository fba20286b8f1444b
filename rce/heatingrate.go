package rce

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// 加熱率 [K/day]
//
// 長波・短波ともに ±MaxHeatingRate に制限される。
type HeatingRate struct {
	LW []float64 // 長波加熱率
	SW []float64 // 短波加熱率
}

// 長波・短波の加熱率から HeatingRate を作成する (±MaxHeatingRate に制限)
func NewHeatingRate(lw []float64, sw []float64) *HeatingRate {
	return &HeatingRate{LW: clampHR(lw), SW: clampHR(sw)}
}

// 正味の加熱率
func (hr *HeatingRate) Net() []float64 {
	net := clone(hr.LW)
	floats.Add(net, hr.SW)
	return net
}

func (hr *HeatingRate) Len() int {
	return len(hr.LW)
}

func clampHR(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Max(math.Min(x, MaxHeatingRate), -MaxHeatingRate)
		if out[i] == 0 {
			out[i] = 0 // 負のゼロを除く
		}
	}
	return out
}

// """放射フラックスから加熱率を求める
// Args:
//
//	atm(*Atmosphere): 大気プロファイル
//	flx(*Flux): 境界上の放射フラックス
//
// Returns:
//
//	*HeatingRate: 主格子上の加熱率 [K/day]
//
// Note:
//
//	gridstagger の場合は層ごとの1次差分 (層の数)、
//	そうでない場合は不等間隔の2次差分 (境界の数) を用いる。
//
// """
func HeatingRates(atm *Atmosphere, flx *Flux) *HeatingRate {
	diff := hr23
	if atm.gridStagger {
		diff = hr12
	}
	return NewHeatingRate(
		diff(flx.NetLW(), atm.plev),
		diff(flx.NetSW(), atm.plev),
	)
}

// 層ごとの1次差分
func hr12(F []float64, p []float64) []float64 {
	n := len(p)
	if n < 2 {
		return []float64{}
	}
	hr := make([]float64, n-1)
	for i := range hr {
		hr[i] = hrFactor * (F[i] - F[i+1]) / (p[i] - p[i+1])
	}
	return hr
}

// 境界上の2次差分。端では内側の2点を用いた片側差分とする。
func hr23(F []float64, p []float64) []float64 {
	n := len(p)
	hr := make([]float64, n)
	if n < 2 {
		return hr
	}
	if n < 3 {
		// 3点に満たない場合は1次差分を両端に用いる
		v := hrFactor * (F[0] - F[1]) / (p[0] - p[1])
		for i := range hr {
			hr[i] = v
		}
		return hr
	}

	for i := 1; i < n-1; i++ {
		dprat := (p[i+1] - p[i]) / (p[i] - p[i-1])
		dpinv := 1 / (p[i+1] - p[i-1])
		c1 := dprat * dpinv
		c2 := dpinv / dprat
		hr[i] = hrFactor * (c1*(F[i]-F[i-1]) + c2*(F[i+1]-F[i]))
	}

	// 上端
	dprat := (p[1] - p[0]) / (p[2] - p[0])
	dpinv := 1 / (p[1] - p[2])
	c1 := dprat * dpinv
	c2 := dpinv / dprat
	hr[0] = hrFactor * (c1*(F[2]-F[0]) + c2*(F[0]-F[1]))

	// 下端
	dprat = (p[n-2] - p[n-1]) / (p[n-3] - p[n-1])
	dpinv = 1 / (p[n-2] - p[n-3])
	c1 = dprat * dpinv
	c2 = dpinv / dprat
	hr[n-1] = hrFactor * (c1*(F[n-3]-F[n-1]) + c2*(F[n-1]-F[n-2]))

	return hr
}

// """加熱率のファイルを読み込む
// Args:
//
//	path(string): 加熱率ファイルのパス
//	atm(*Atmosphere): 補間先の大気プロファイル (nil の場合は補間しない)
//
// Returns:
//
//	*HeatingRate: atm の主格子上の加熱率 [K/day]
//
// """
func HeatingRateFromFile(path string, atm *Atmosphere) (*HeatingRate, error) {
	z, lw, sw, err := ReadHRProfile(path)
	if err != nil {
		return nil, err
	}
	logger().Infof("加熱率プロファイル読み込み: %s", path)
	if atm == nil {
		return NewHeatingRate(lw, sw), nil
	}

	// 高度の昇順で補間し、大気プロファイルの順に戻す
	floats.Reverse(z)
	floats.Reverse(lw)
	floats.Reverse(sw)
	zq := atm.Z()
	floats.Reverse(zq)

	lwq := Interp(z, lw, zq)
	swq := Interp(z, sw, zq)
	floats.Reverse(lwq)
	floats.Reverse(swq)
	return NewHeatingRate(lwq, swq), nil
}
