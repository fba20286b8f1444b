package rce

import (
	"math"
	"time"
)

// """日付から太陽赤緯と大気外日射量の距離補正係数を求める
// Args:
//
//	date(time.Time): 計算対象の日付
//
// Returns:
//
//	decl(float64): 太陽赤緯 [deg]
//	dist(float64): 大気外日射量の距離補正係数 (太陽定数に乗じる) [-]
//
// """
func Ephemeris(date time.Time) (decl float64, dist float64) {
	dlt0 := degreeToRad(-23.4393) //冬至の日赤緯

	nday := float64(date.YearDay()) //年間通日+1
	n := float64(date.Year() - 1968)

	d0 := 3.71 + 0.2596*n - math.Floor((n+3)/4)                               //近日点通過日
	m := 360 * (nday - d0) / 365.2596                                         //平均近点離角
	eps := 12.3901 + 0.0172*(n+m/360)                                         //近日点と冬至点の角度
	v := m + 1.914*math.Sin(degreeToRad(m)) + 0.02*math.Sin(degreeToRad(2*m)) //真近点離角
	veps := degreeToRad(v + eps)

	sindlt := math.Cos(veps) * math.Sin(dlt0) //赤緯の正弦

	decl = radToDegree(math.Asin(sindlt))
	dist = 1 + 0.033*math.Cos(degreeToRad(v))
	return decl, dist
}

// 日付から太陽赤緯 [deg] を求める
func Declination(date time.Time) float64 {
	decl, _ := Ephemeris(date)
	return decl
}

// 日の出・日の入りの時角 [rad]
//
// lat: 緯度 [deg], decl: 太陽赤緯 [deg]
func HourAngle(lat float64, decl float64) float64 {
	cosha := -math.Tan(degreeToRad(lat)) * math.Tan(degreeToRad(decl))
	cosha = math.Copysign(math.Min(math.Abs(cosha), 1.0), cosha)
	return math.Acos(cosha)
}

// 昼間平均の太陽天頂角の余弦 [-]
//
// lat: 緯度 [deg], decl: 太陽赤緯 [deg]
func MuBar(lat float64, decl float64) float64 {
	lr := degreeToRad(lat)
	dr := degreeToRad(decl)
	ha := math.Max(HourAngle(lat, decl), epsilon)
	mu := math.Cos(lr)*math.Cos(dr)*math.Sin(ha)/ha + math.Sin(lr)*math.Sin(dr)
	return math.Max(mu, 0)
}

// 昼間の割合 [-]
//
// lat: 緯度 [deg], decl: 太陽赤緯 [deg]
func DayFraction(lat float64, decl float64) float64 {
	return HourAngle(lat, decl) / math.Pi
}

// 倍精度の計算機イプシロン
const epsilon = 2.220446049250313e-16

func radToDegree(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func degreeToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
