package rce

import "math"

//--------------------------------------
// 水蒸気に関する計算
//--------------------------------------

// 飽和水蒸気圧の水/氷の切り替え温度 [K]
const tTrans = 273.16

// """Goff-Gratchの式 飽和水蒸気圧
// Args:
//
//	T(float64): 絶対温度 [K]
//
// Returns:
//
//	float64: 飽和水蒸気圧 [hPa] (T >= 273.16 K では水面、それ未満では氷面)
//
// """
func SatVap(T float64) float64 {
	const tsteam = 373.16
	const tice = 273.16

	var loge float64
	if T >= tTrans {
		loge = -7.90298*(tsteam/T-1) + 5.02808*math.Log10(tsteam/T) -
			1.3816e-7*(math.Pow(10, 11.344*(1-T/tsteam))-1) +
			8.1328e-3*(math.Pow(10, -3.49149*(tsteam/T-1))-1) +
			math.Log10(1013.25)
	} else {
		loge = -9.09718*(tice/T-1) - 3.56654*math.Log10(tice/T) -
			0.876793*(1-T/tice) + math.Log10(6.1173)
	}
	return math.Pow(10, loge)
}

// 飽和混合比 [g/g]
//
// T: 絶対温度 [K], p: 気圧 [hPa]
func SatMixRat(T float64, p float64) float64 {
	return Eps * SatVap(T) / p
}

// 混合比 q [g/g] から相対湿度 [-] を求める
func Q2RH(q []float64, T []float64, p []float64) []float64 {
	rh := make([]float64, len(q))
	for i := range q {
		rh[i] = q[i] / SatMixRat(T[i], p[i])
	}
	return rh
}

// 相対湿度 rh [-] から混合比 [g/g] を求める
func RH2Q(rh []float64, T []float64, p []float64) []float64 {
	q := make([]float64, len(rh))
	for i := range rh {
		q[i] = rh[i] * SatMixRat(T[i], p[i])
	}
	return q
}

// """混合比を下限値 QMin 以上とし、高度とともに増加しないように補正する
// Args:
//
//	q([]float64): 混合比 [g/g] (気圧の昇順、すなわち上端から地表の順)
//
// Returns:
//
//	[]float64: 補正後の混合比 (新しいスライス)
//
// """
func EnforceQGradient(q []float64) []float64 {
	out := append([]float64{}, q...)
	n := len(out)
	if n == 0 {
		return out
	}
	out[n-1] = math.Max(out[n-1], QMin)
	for i := n - 1; i > 0; i-- {
		out[i-1] = math.Max(math.Min(out[i], out[i-1]), QMin)
	}
	return out
}

// 相対湿度を [0,1] に制限する
func clampRH(rh []float64) []float64 {
	out := make([]float64, len(rh))
	for i, v := range rh {
		out[i] = math.Min(math.Max(v, 0), 1)
	}
	return out
}

// 気温を [TMin,TMax] に制限する
func clampT(t float64) float64 {
	return math.Min(math.Max(t, TMin), TMax)
}

func clampTs(t []float64) []float64 {
	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = clampT(v)
	}
	return out
}

// オゾン混合比を0以上とする
func floorZero(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Max(x, 0)
	}
	return out
}

// 仮温度 [K]
func virtualTemperature(T float64, q float64) float64 {
	return T * (1 + (1/Eps-1)*q)
}
