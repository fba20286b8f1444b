package rce

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// 標準大気プロファイル
type Profile struct {
	P  []float64 //1.気圧 (単位:hPa)
	T  []float64 //2.気温 (単位:K)
	Q  []float64 //3.水蒸気混合比 (単位:g/g)
	O3 []float64 //4.オゾン混合比 (単位:g/g)
}

func (pf *Profile) Len() int {
	return len(pf.P)
}

// 気圧の昇順に並べ替える
func (pf *Profile) sortAscending() {
	if len(pf.P) < 2 || pf.P[1] > pf.P[0] {
		return
	}
	floats.Reverse(pf.P)
	floats.Reverse(pf.T)
	floats.Reverse(pf.Q)
	floats.Reverse(pf.O3)
}

// 気圧 pmin から pmax [hPa] までのデータを抜き出して新しい構造体を作成します。
func (pf *Profile) ExtractRange(pmin float64, pmax float64) *Profile {
	start_index := sort.Search(len(pf.P), func(i int) bool {
		return pf.P[i] >= pmin
	})
	end_index := sort.Search(len(pf.P), func(i int) bool {
		return pf.P[i] > pmax
	})
	return &Profile{
		P:  append([]float64{}, pf.P[start_index:end_index]...),
		T:  append([]float64{}, pf.T[start_index:end_index]...),
		Q:  append([]float64{}, pf.Q[start_index:end_index]...),
		O3: append([]float64{}, pf.O3[start_index:end_index]...),
	}
}

// 気圧 p [hPa] に補間した新しい構造体を作成します。
func (pf *Profile) Regrid(p []float64) *Profile {
	return &Profile{
		P:  append([]float64{}, p...),
		T:  Interp(pf.P, pf.T, p),
		Q:  Interp(pf.P, pf.Q, p),
		O3: Interp(pf.P, pf.O3, p),
	}
}
