package rce

import (
	"math"
)

// """気温減率 lapseRate [K/km] に従う対流平衡の気温プロファイル
// Args:
//
//	atm(*Atmosphere): 大気プロファイル (地表面温度と気圧を使用)
//	lapseRate(float64): 気温減率 [K/km]
//
// Returns:
//
//	[]float64: 主格子上の気温 [K]
//
// """
func ConvectiveProfile(atm *Atmosphere, lapseRate float64) []float64 {
	p := atm.pPrimary()
	psfc := atm.plev[len(atm.plev)-1]
	kappa := lapseRate / 1.0e3 * Rd / Grav
	tconv := make([]float64, len(p))
	for i := range p {
		tconv[i] = atm.tsfc * math.Pow(p[i]/psfc, kappa)
	}
	return tconv
}

// """対流調節を行う
//
// コールドポイント探索範囲の下端より下層では対流平衡の気温とし、
// それより上層では対流平衡の気温を下回らないようにする。
// 対流上端は対流平衡の気温が放射計算後の気温以上となる最初の点の1つ上とする。
//
// """
func (s *Solver) convectiveAdjustment(atm *Atmosphere) error {
	tconv := ConvectiveProfile(atm, s.lapseRate)
	trad := atm.T()
	p := atm.pPrimary()

	t := make([]float64, len(trad))
	for i := range t {
		if p[i] >= atm.coldPMax {
			t[i] = tconv[i]
		} else {
			t[i] = math.Max(tconv[i], trad[i])
		}
	}

	iconv := convectiveTop(tconv, trad)
	if err := atm.SetT(t); err != nil {
		return err
	}
	return atm.SetIconv(iconv)
}

// 対流上端のインデックス
//
// 交差がない場合、または最上端で交差する場合は最下端とする。
func convectiveTop(tconv []float64, trad []float64) int {
	n := len(tconv)
	for i := range tconv {
		if tconv[i] >= trad[i] {
			if i == 0 {
				return n - 1
			}
			return i - 1
		}
	}
	return n - 1
}
