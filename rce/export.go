package rce

import (
	"bytes"
	"strconv"
)

// CSV形式
//
// 主格子の気圧, 気温, 混合比, 相対湿度, オゾン, 高度と加熱率を出力します。
func (res *Result) ToCSV(buf *bytes.Buffer) {
	atm := res.Atmosphere
	buf.WriteString("p")
	buf.WriteString(",t")
	buf.WriteString(",q")
	buf.WriteString(",rh")
	buf.WriteString(",o3")
	buf.WriteString(",z")
	if res.HR != nil {
		buf.WriteString(",hr_lw")
		buf.WriteString(",hr_sw")
		buf.WriteString(",hr")
	}
	buf.WriteString("\n")

	p, t, q, rh, o3, z := atm.P(), atm.T(), atm.Q(), atm.RH(), atm.O3(), atm.Z()
	var net []float64
	if res.HR != nil {
		net = res.HR.Net()
	}

	writeFloat := func(v float64) {
		buf.WriteString(",")
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	for i := 0; i < len(p); i++ {
		buf.WriteString(strconv.FormatFloat(p[i], 'f', -1, 64))
		writeFloat(t[i])
		writeFloat(q[i])
		writeFloat(rh[i])
		writeFloat(o3[i])
		writeFloat(z[i])
		if res.HR != nil {
			writeFloat(res.HR.LW[i])
			writeFloat(res.HR.SW[i])
			writeFloat(net[i])
		}
		buf.WriteString("\n")
	}
}

// 標準大気プロファイル形式
//
// 境界の気圧, 気温, 混合比, オゾンを空白区切りで出力します。ReadProfile で読み込めます。
func (atm *Atmosphere) ToProfile(buf *bytes.Buffer) {
	buf.WriteString("p(hPa) t(K) q(g/g) o3(g/g)\n")

	writeFloat := func(v float64) {
		buf.WriteString(" ")
		buf.WriteString(strconv.FormatFloat(v, 'e', 8, 64))
	}
	for i := 0; i < len(atm.plev); i++ {
		buf.WriteString(strconv.FormatFloat(atm.plev[i], 'f', -1, 64))
		writeFloat(atm.tlev[i])
		writeFloat(atm.qlev[i])
		writeFloat(atm.o3lev[i])
		buf.WriteString("\n")
	}
}
