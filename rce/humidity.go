package rce

import "math"

// Manabe and Wetherald (1967) の相対湿度プロファイル [-]
//
// p は気圧の昇順 (地表が最後) であること。
func ManabeRH(p []float64) []float64 {
	rh := make([]float64, len(p))
	if len(p) == 0 {
		return rh
	}
	psfc := p[len(p)-1]
	for i := range p {
		rh[i] = math.Max(0.77*((p[i]/psfc-0.02)/0.98), 0)
	}
	return rh
}

// 一様な相対湿度プロファイル [-]
func UniformRH(p []float64, rh float64) []float64 {
	out := make([]float64, len(p))
	for i := range out {
		out[i] = rh
	}
	return out
}
