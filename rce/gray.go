package rce

import (
	"math"
)

// 灰色大気の2方向近似による放射モデル
//
// 長波は水蒸気と温室効果ガス、短波はオゾンと水蒸気による吸収のみを考える。
type GrayModel struct {
	KWaterLW    float64 // 水蒸気の長波質量吸収係数 [m2/kg]
	TauCO2      float64 // CO2 356ppmv における長波光学的厚さ [-]
	KOzoneSW    float64 // オゾンの短波質量吸収係数 [m2/kg]
	KWaterSW    float64 // 水蒸気の短波質量吸収係数 [m2/kg]
	Diffusivity float64 // 拡散因子 [-]
}

func NewGrayModel() *GrayModel {
	return &GrayModel{
		KWaterLW:    0.1,
		TauCO2:      1.0,
		KOzoneSW:    5.0,
		KWaterSW:    0.006,
		Diffusivity: 1.66,
	}
}

// 微量気体の長波光学的厚さ [-]
func (m *GrayModel) traceGasTau(chem ChemParm) float64 {
	tau := m.TauCO2 * math.Sqrt(math.Max(chem.CO2, 0)/356)
	tau += 0.03 * math.Sqrt(math.Max(chem.CH4, 0))
	tau += 0.04 * math.Sqrt(math.Max(chem.N2O, 0))
	tau += 50 * (chem.CFC11 + chem.CFC12 + chem.CFC22 + chem.CCL4)
	return tau
}

// """放射フラックスを計算する
// Args:
//
//	atm(*Atmosphere): 大気プロファイル
//	chem(ChemParm): 大気組成
//	lw(LWParm): 長波放射のパラメータ
//	sw(SWParm): 短波放射のパラメータ
//
// Returns:
//
//	*Flux: 境界上の放射フラックス [W/m2]
//
// """
func (m *GrayModel) Radiation(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
	plev := atm.plev
	tlay := atm.tlay
	qlay := atm.qlay
	o3lay := atm.o3lay
	nlev := len(plev)
	nlay := nlev - 1
	psfc := plev[nlev-1]

	tauGas := m.traceGasTau(chem)

	// 層ごとの光学的厚さ
	dtauLW := make([]float64, nlay)
	dtauSW := make([]float64, nlay)
	for i := 0; i < nlay; i++ {
		dp := plev[i+1] - plev[i]
		mass := dp * Mb2Pa / Grav // 層の空気の質量 [kg/m2]
		dtauLW[i] = m.KWaterLW*qlay[i]*mass +
			tauGas*(plev[i+1]*plev[i+1]-plev[i]*plev[i])/(psfc*psfc)
		dtauSW[i] = m.KOzoneSW*o3lay[i]*mass + m.KWaterSW*qlay[i]*mass
	}

	// 長波
	fdir := make([]float64, nlev)
	fuir := make([]float64, nlev)
	for i := 0; i < nlay; i++ {
		tr := math.Exp(-m.Diffusivity * dtauLW[i])
		b := Sigma * math.Pow(tlay[i], 4)
		fdir[i+1] = fdir[i]*tr + b*(1-tr)
	}
	fuir[nlev-1] = lw.Emis*Sigma*math.Pow(atm.tsfc, 4) + (1-lw.Emis)*fdir[nlev-1]
	for i := nlay - 1; i >= 0; i-- {
		tr := math.Exp(-m.Diffusivity * dtauLW[i])
		b := Sigma * math.Pow(tlay[i], 4)
		fuir[i] = fuir[i+1]*tr + b*(1-tr)
	}

	// 短波
	fdsw := make([]float64, nlev)
	fusw := make([]float64, nlev)
	fdsw[0] = math.Max(sw.Insolation(), 0)
	if sw.Coszen > 0 {
		for i := 0; i < nlay; i++ {
			fdsw[i+1] = fdsw[i] * math.Exp(-dtauSW[i]/sw.Coszen)
		}
	}
	fusw[nlev-1] = sw.Albedo * fdsw[nlev-1]
	for i := nlay - 1; i >= 0; i-- {
		fusw[i] = fusw[i+1] * math.Exp(-m.Diffusivity*dtauSW[i])
	}

	return NewFlux(fuir, fdir, fusw, fdsw), nil
}
