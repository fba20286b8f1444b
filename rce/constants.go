package rce

// 物理定数
const (
	Cpd      = 1004.0      // 乾燥空気の定圧比熱 [J/kg/K]
	Grav     = 9.81        // 重力加速度 [m/s2]
	Rd       = 287.0       // 乾燥空気の気体定数 [J/kg/K]
	Rv       = 461.5       // 水蒸気の気体定数 [J/kg/K]
	Eps      = Rd / Rv     // 分子量比
	SecPerDy = 86400.0     // 1日の秒数 [s]
	Mb2Pa    = 100.0       // hPa => Pa
	Sigma    = 5.670374e-8 // ステファン・ボルツマン定数 [W/m2/K4]
)

// 大気プロファイルの制限値
const (
	QMin     = 3.0e-6 // 混合比の下限 [g/g]
	TMin     = 100.0  // 気温の下限 [K]
	TMax     = 375.0  // 気温の上限 [K]
	TTLPMin  = 5.0    // コールドポイント探索の上端気圧 [hPa]
	TTLPMax  = 400.0  // コールドポイント探索の下端気圧 [hPa]
	TDefault = 288.0  // 気温の既定値 [K]
)

// 加熱率の上限値 [K/day]
const MaxHeatingRate = 5.0

// 熱力学的な加熱率の換算係数 g*86400/(100*cp)
//
// W/m2 / hPa => K/day
const hrFactor = Grav * SecPerDy / (Mb2Pa * Cpd)
