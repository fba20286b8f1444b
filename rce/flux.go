package rce

import "gonum.org/v1/gonum/floats"

// 境界ごとの放射フラックス [W/m2]
//
// 作成後は変更しない。値はすべて境界 (plev と同じ順) 上で与える。
type Flux struct {
	fuir []float64 // 上向き長波
	fdir []float64 // 下向き長波
	fusw []float64 // 上向き短波
	fdsw []float64 // 下向き短波
}

// 上向き/下向きの長波・短波フラックスから Flux を作成する
func NewFlux(fuir, fdir, fusw, fdsw []float64) *Flux {
	return &Flux{
		fuir: clone(fuir),
		fdir: clone(fdir),
		fusw: clone(fusw),
		fdsw: clone(fdsw),
	}
}

func (f *Flux) UpLW() []float64   { return clone(f.fuir) }
func (f *Flux) DownLW() []float64 { return clone(f.fdir) }
func (f *Flux) UpSW() []float64   { return clone(f.fusw) }
func (f *Flux) DownSW() []float64 { return clone(f.fdsw) }

// 正味長波フラックス (上向き正)
func (f *Flux) NetLW() []float64 {
	fir := make([]float64, len(f.fuir))
	floats.SubTo(fir, f.fuir, f.fdir)
	return fir
}

// 正味短波フラックス (上向き正)
func (f *Flux) NetSW() []float64 {
	fsw := make([]float64, len(f.fusw))
	floats.SubTo(fsw, f.fusw, f.fdsw)
	return fsw
}

// 正味フラックス (上向き正)
func (f *Flux) Net() []float64 {
	net := f.NetLW()
	floats.Add(net, f.NetSW())
	return net
}

// 外向き長波放射 OLR
func (f *Flux) OLR() float64 {
	return f.fuir[0] - f.fdir[0]
}

// 大気上端の正味フラックス (上向き正)
func (f *Flux) TOA() float64 {
	return f.fusw[0] - f.fdsw[0] + f.OLR()
}

// 地表面の正味フラックス (上向き正)
func (f *Flux) Surface() float64 {
	n := len(f.fuir) - 1
	return f.fusw[n] - f.fdsw[n] + f.fuir[n] - f.fdir[n]
}

func (f *Flux) Len() int {
	return len(f.fuir)
}
