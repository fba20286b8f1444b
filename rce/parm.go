package rce

// 大気組成
type ChemParm struct {
	CO2   float64 `yaml:"co2" toml:"co2"`     // 二酸化炭素 [ppmv]
	O2    float64 `yaml:"o2" toml:"o2"`       // 酸素 [体積比]
	N2O   float64 `yaml:"n2o" toml:"n2o"`     // 一酸化二窒素 [ppmv]
	CH4   float64 `yaml:"ch4" toml:"ch4"`     // メタン [ppmv]
	CFC11 float64 `yaml:"cfc11" toml:"cfc11"` // [ppmv]
	CFC12 float64 `yaml:"cfc12" toml:"cfc12"` // [ppmv]
	CFC22 float64 `yaml:"cfc22" toml:"cfc22"` // [ppmv]
	CCL4  float64 `yaml:"ccl4" toml:"ccl4"`   // [ppmv]
}

func DefaultChemParm() ChemParm {
	return ChemParm{CO2: 356, O2: 0.21}
}

// 長波放射のパラメータ
type LWParm struct {
	Emis float64 `yaml:"emis" toml:"emis"` // 地表面の射出率 [-]
}

func DefaultLWParm() LWParm {
	return LWParm{Emis: 1.0}
}

// 短波放射のパラメータ
type SWParm struct {
	Albedo float64 `yaml:"albedo" toml:"albedo"` // 地表面アルベド [-]
	Fday   float64 `yaml:"fday" toml:"fday"`     // 昼間の割合 [-]
	Coszen float64 `yaml:"coszen" toml:"coszen"` // 太陽天頂角の余弦 [-]
	Scon   float64 `yaml:"scon" toml:"scon"`     // 太陽定数 [W/m2]
}

func DefaultSWParm() SWParm {
	return SWParm{Albedo: 0.3, Fday: 0.5, Coszen: 0.5, Scon: 1361}
}

// 大気上端の日平均入射短波放射 [W/m2]
func (sw SWParm) Insolation() float64 {
	return sw.Scon * sw.Fday * sw.Coszen
}

// 緯度 lat と赤緯 decl [deg] から太陽天頂角の余弦と昼間の割合を設定する
func (sw *SWParm) ApplySolarGeometry(lat float64, decl float64) {
	sw.Coszen = MuBar(lat, decl)
	sw.Fday = DayFraction(lat, decl)
}
