package rce

import "sort"

// """xq が挿入される区間の右端インデックスを二分探索で求める
// Args:
//
//	x([]float64): 昇順に並んだ格子
//	xq(float64): 探索する値
//
// Returns:
//
//	int: x[R] >= xq となる最小の R (ただし 1 <= R <= len(x)-1)
//
// """
func findValue(x []float64, xq float64) int {
	n := len(x)
	return 1 + sort.Search(n-2, func(i int) bool {
		return x[i+1] >= xq
	})
}

// """区分線形補間を行う。格子の範囲外は端の区間で線形外挿する。
// Args:
//
//	x([]float64): 昇順に並んだ格子 (長さ2以上)
//	y([]float64): x 上の値
//	xq([]float64): 補間先の格子 (昇順である必要はない)
//
// Returns:
//
//	[]float64: xq 上の値
//
// """
func Interp(x []float64, y []float64, xq []float64) []float64 {
	yq := make([]float64, len(xq))
	switch len(x) {
	case 0:
		return yq
	case 1:
		// 1点のみの場合は一定値
		for i := range yq {
			yq[i] = y[0]
		}
		return yq
	}

	for i, v := range xq {
		idx := findValue(x, v)
		f := (v - x[idx-1]) / (x[idx] - x[idx-1])
		yq[i] = (1-f)*y[idx-1] + f*y[idx]
	}
	return yq
}

// 境界 (levels) の値を層 (layers) の中点に補間する
func lev2lay(plev, play, vlev []float64) []float64 {
	return Interp(plev, vlev, play)
}

// 層 (layers) の値を境界 (levels) に補間する。上端と下端は外挿となる。
func lay2lev(play, plev, vlay []float64) []float64 {
	return Interp(play, vlay, plev)
}

// 境界の気圧から層の中点気圧を求める
func midpoints(plev []float64) []float64 {
	if len(plev) < 2 {
		return []float64{}
	}
	play := make([]float64, len(plev)-1)
	for i := range play {
		play[i] = 0.5 * (plev[i] + plev[i+1])
	}
	return play
}

// 格子が狭義単調増加であるか確認する
func strictlyIncreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return false
		}
	}
	return true
}
