package rce

import (
	"fmt"
	"math"
)

// 大気の鉛直プロファイル
//
// 状態量は境界 (levels, N+1点) と層 (layers, N点) の両方に保持する。
// gridStagger が true の場合は層、false の場合は境界が主格子となる。
// 気圧はすべてインデックスとともに増加する (上端から地表の順)。
type Atmosphere struct {
	gridStagger bool
	holdRH      bool // true: 相対湿度を保持し混合比を再計算, false: 混合比を保持

	plev []float64 // 境界の気圧 [hPa]
	play []float64 // 層の中点気圧 [hPa]

	tlev, tlay   []float64 // 気温 [K]
	qlev, qlay   []float64 // 水蒸気混合比 [g/g]
	rhlev, rhlay []float64 // 相対湿度 [-]
	o3lev, o3lay []float64 // オゾン混合比 [g/g]
	zlev, zlay   []float64 // ジオポテンシャル高度 [m]

	tsfc float64 // 地表面温度 [K]

	coldPMin float64 // コールドポイント探索の上端気圧 [hPa]
	coldPMax float64 // コールドポイント探索の下端気圧 [hPa]

	icold    int
	iwarm    int
	iconv    int
	iconvSet bool
}

type atmosphereConfig struct {
	gridStagger *bool
	plev        []float64
	t, q, rh    []float64
	o3          []float64
	tsfc        *float64
	holdRH      *bool
	coldPMin    float64
	coldPMax    float64
}

// Option は NewAtmosphere の引数
type Option func(*atmosphereConfig) error

// 主格子を層とするかどうか (必須)
func GridStagger(v bool) Option {
	return func(c *atmosphereConfig) error {
		c.gridStagger = &v
		return nil
	}
}

// 境界の気圧 [hPa] (必須, 昇順)
func Levels(plev []float64) Option {
	return func(c *atmosphereConfig) error {
		c.plev = append([]float64{}, plev...)
		return nil
	}
}

// 境界の気温 [K]
func Temperature(t []float64) Option {
	return func(c *atmosphereConfig) error {
		c.t = append([]float64{}, t...)
		return nil
	}
}

// 境界の水蒸気混合比 [g/g]
func MixingRatio(q []float64) Option {
	return func(c *atmosphereConfig) error {
		c.q = append([]float64{}, q...)
		return nil
	}
}

// 境界の相対湿度 [-]
func RelativeHumidity(rh []float64) Option {
	return func(c *atmosphereConfig) error {
		c.rh = append([]float64{}, rh...)
		return nil
	}
}

// 境界のオゾン混合比 [g/g]
func Ozone(o3 []float64) Option {
	return func(c *atmosphereConfig) error {
		c.o3 = append([]float64{}, o3...)
		return nil
	}
}

// 地表面温度 [K]
func SurfaceTemperature(tsfc float64) Option {
	return func(c *atmosphereConfig) error {
		c.tsfc = &tsfc
		return nil
	}
}

// 相対湿度を保持するかどうか
func HoldRH(v bool) Option {
	return func(c *atmosphereConfig) error {
		c.holdRH = &v
		return nil
	}
}

// コールドポイントの探索範囲 [hPa]
func ColdPointBand(pmin float64, pmax float64) Option {
	return func(c *atmosphereConfig) error {
		if !(pmin < pmax) {
			return fmt.Errorf("cold point band %g-%g hPa: %w", pmin, pmax, ErrInvalidOption)
		}
		c.coldPMin = pmin
		c.coldPMax = pmax
		return nil
	}
}

func newAtmosphereConfig(opts []Option) (*atmosphereConfig, error) {
	c := &atmosphereConfig{coldPMin: TTLPMin, coldPMax: TTLPMax}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// """境界の値から大気プロファイルを作成する
// Args:
//
//	opts(...Option): GridStagger と Levels は必須
//
// Returns:
//
//	*Atmosphere: 作成した大気プロファイル
//	error: 設定エラーまたは配列長の不一致
//
// Note:
//
//	q, rh のいずれも与えない場合は両方0 (乾燥大気) とする。
//	一方のみ与えた場合はもう一方を飽和水蒸気圧から求める。
//	両方与えた場合はどちらも与えた値のまま保持し、互いに整合しない場合がある。
//	保持していない側は最初の更新 (SetT など) で再計算される。
//	holdrh の既定値は rh を与えたかどうかによる。
//
// """
func NewAtmosphere(opts ...Option) (*Atmosphere, error) {
	c, err := newAtmosphereConfig(opts)
	if err != nil {
		return nil, err
	}
	return c.build()
}

func (c *atmosphereConfig) build() (*Atmosphere, error) {
	if c.gridStagger == nil {
		return nil, ErrMissingGridStagger
	}
	if c.plev == nil {
		return nil, ErrMissingLevels
	}
	if len(c.plev) < 2 || !strictlyIncreasing(c.plev) {
		return nil, ErrInvalidGrid
	}

	n := len(c.plev)
	for _, f := range []struct {
		name string
		v    []float64
	}{{"t", c.t}, {"q", c.q}, {"rh", c.rh}, {"o3", c.o3}} {
		if f.v != nil && len(f.v) != n {
			return nil, &FieldError{Field: f.name, Err: ErrLengthMismatch}
		}
	}

	atm := &Atmosphere{
		gridStagger: *c.gridStagger,
		plev:        c.plev,
		play:        midpoints(c.plev),
		coldPMin:    c.coldPMin,
		coldPMax:    c.coldPMax,
	}

	// 気温
	if c.t == nil {
		atm.tlev = make([]float64, n)
		for i := range atm.tlev {
			atm.tlev[i] = TDefault
		}
	} else {
		atm.tlev = clampTs(c.t)
	}

	// 水蒸気
	useRH := false
	skipWV := false
	switch {
	case c.q == nil && c.rh == nil:
		atm.qlev = make([]float64, n)
		atm.rhlev = make([]float64, n)
	case c.q == nil:
		useRH = true
		atm.rhlev = clampRH(c.rh)
		atm.qlev = EnforceQGradient(RH2Q(atm.rhlev, atm.tlev, atm.plev))
	case c.rh == nil:
		atm.qlev = EnforceQGradient(c.q)
		atm.rhlev = clampRH(Q2RH(atm.qlev, atm.tlev, atm.plev))
	default:
		useRH = true
		skipWV = true
		atm.qlev = EnforceQGradient(c.q)
		atm.rhlev = clampRH(c.rh)
	}
	if c.holdRH != nil {
		atm.holdRH = *c.holdRH
	} else {
		atm.holdRH = useRH
	}

	// オゾン
	if c.o3 == nil {
		atm.o3lev = make([]float64, n)
	} else {
		atm.o3lev = floorZero(c.o3)
	}

	// 地表面温度
	if c.tsfc != nil {
		atm.tsfc = clampT(*c.tsfc)
	} else {
		atm.tsfc = atm.tlev[n-1]
	}

	atm.tlay = lev2lay(atm.plev, atm.play, atm.tlev)
	atm.qlay = lev2lay(atm.plev, atm.play, atm.qlev)
	atm.rhlay = lev2lay(atm.plev, atm.play, atm.rhlev)
	atm.o3lay = lev2lay(atm.plev, atm.play, atm.o3lev)

	atm.derive(!skipWV)
	return atm, nil
}

// 主格子の値をもう一方の格子に再配分し、派生量を再計算する
func (atm *Atmosphere) refresh() {
	atm.distribute()
	atm.derive(true)
}

func (atm *Atmosphere) distribute() {
	if atm.gridStagger {
		atm.tlev = clampTs(lay2lev(atm.play, atm.plev, atm.tlay))
		atm.qlev = atm.fixQ(lay2lev(atm.play, atm.plev, atm.qlay))
		atm.rhlev = clampRH(lay2lev(atm.play, atm.plev, atm.rhlay))
		atm.o3lev = floorZero(lay2lev(atm.play, atm.plev, atm.o3lay))
	} else {
		atm.tlay = clampTs(lev2lay(atm.plev, atm.play, atm.tlev))
		atm.qlay = atm.fixQ(lev2lay(atm.plev, atm.play, atm.qlev))
		atm.rhlay = clampRH(lev2lay(atm.plev, atm.play, atm.rhlev))
		atm.o3lay = floorZero(lev2lay(atm.plev, atm.play, atm.o3lev))
	}
}

// 補間 (外挿) 後の混合比を補正する。乾燥大気はそのままとする。
func (atm *Atmosphere) fixQ(q []float64) []float64 {
	for _, v := range atm.qPrimary() {
		if v > 0 {
			return EnforceQGradient(q)
		}
	}
	return q
}

func (atm *Atmosphere) derive(updateWV bool) {
	if updateWV {
		atm.updateWV()
	}
	atm.updateHeights()
	atm.updateColdPoint()
	atm.updateWarmPoint()
}

// 保持していない側の水蒸気量を再計算する
func (atm *Atmosphere) updateWV() {
	if atm.holdRH {
		atm.qlev = EnforceQGradient(RH2Q(atm.rhlev, atm.tlev, atm.plev))
		atm.qlay = EnforceQGradient(RH2Q(atm.rhlay, atm.tlay, atm.play))
	} else {
		atm.rhlev = clampRH(Q2RH(atm.qlev, atm.tlev, atm.plev))
		atm.rhlay = clampRH(Q2RH(atm.qlay, atm.tlay, atm.play))
	}
}

// 静力学平衡からジオポテンシャル高度を求める。地表 (plev の最後) を0とする。
func (atm *Atmosphere) updateHeights() {
	n := len(atm.plev)
	zlev := make([]float64, n)
	for i := n - 2; i >= 0; i-- {
		tv := virtualTemperature(atm.tlay[i], atm.qlay[i])
		dz := Rd / Grav * math.Log(atm.plev[i+1]/atm.plev[i]) * tv
		zlev[i] = zlev[i+1] + dz
	}
	atm.zlev = zlev
	atm.zlay = lev2lay(atm.plev, atm.play, zlev)
}

// コールドポイント: 探索範囲内で気温が最小となるインデックス
func (atm *Atmosphere) updateColdPoint() {
	p, t := atm.pPrimary(), atm.tPrimary()
	atm.icold = 0
	best := math.Inf(1)
	for i := range p {
		if p[i] >= atm.coldPMin && p[i] <= atm.coldPMax && t[i] < best {
			best = t[i]
			atm.icold = i
		}
	}
}

// ウォームポイント: 探索範囲の下端より下層で気温が最大となるインデックス
func (atm *Atmosphere) updateWarmPoint() {
	p, t := atm.pPrimary(), atm.tPrimary()
	atm.iwarm = 0
	best := math.Inf(-1)
	for i := range p {
		if p[i] >= atm.coldPMax && t[i] > best {
			best = t[i]
			atm.iwarm = i
		}
	}
}

func (atm *Atmosphere) pPrimary() []float64 {
	if atm.gridStagger {
		return atm.play
	}
	return atm.plev
}

func (atm *Atmosphere) tPrimary() []float64 {
	if atm.gridStagger {
		return atm.tlay
	}
	return atm.tlev
}

func (atm *Atmosphere) qPrimary() []float64 {
	if atm.gridStagger {
		return atm.qlay
	}
	return atm.qlev
}

func (atm *Atmosphere) zPrimary() []float64 {
	if atm.gridStagger {
		return atm.zlay
	}
	return atm.zlev
}

func clone(v []float64) []float64 {
	return append([]float64{}, v...)
}

//--------------------------------------
// 参照
//--------------------------------------

// 主格子の点数
func (atm *Atmosphere) Len() int { return len(atm.pPrimary()) }

func (atm *Atmosphere) GridStagger() bool { return atm.gridStagger }
func (atm *Atmosphere) HoldRH() bool { return atm.holdRH }

// 主格子の気圧 [hPa]
func (atm *Atmosphere) P() []float64 { return clone(atm.pPrimary()) }

// 主格子の気温 [K]
func (atm *Atmosphere) T() []float64 { return clone(atm.tPrimary()) }

// 主格子の混合比 [g/g]
func (atm *Atmosphere) Q() []float64 { return clone(atm.qPrimary()) }

// 主格子の相対湿度 [-]
func (atm *Atmosphere) RH() []float64 {
	if atm.gridStagger {
		return clone(atm.rhlay)
	}
	return clone(atm.rhlev)
}

// 主格子のオゾン混合比 [g/g]
func (atm *Atmosphere) O3() []float64 {
	if atm.gridStagger {
		return clone(atm.o3lay)
	}
	return clone(atm.o3lev)
}

// 主格子の高度 [m]
func (atm *Atmosphere) Z() []float64 { return clone(atm.zPrimary()) }

func (atm *Atmosphere) PLev() []float64 { return clone(atm.plev) }
func (atm *Atmosphere) PLay() []float64 { return clone(atm.play) }
func (atm *Atmosphere) TLev() []float64 { return clone(atm.tlev) }
func (atm *Atmosphere) TLay() []float64 { return clone(atm.tlay) }
func (atm *Atmosphere) QLev() []float64 { return clone(atm.qlev) }
func (atm *Atmosphere) QLay() []float64 { return clone(atm.qlay) }
func (atm *Atmosphere) RHLev() []float64 { return clone(atm.rhlev) }
func (atm *Atmosphere) RHLay() []float64 { return clone(atm.rhlay) }
func (atm *Atmosphere) O3Lev() []float64 { return clone(atm.o3lev) }
func (atm *Atmosphere) O3Lay() []float64 { return clone(atm.o3lay) }
func (atm *Atmosphere) ZLev() []float64 { return clone(atm.zlev) }
func (atm *Atmosphere) ZLay() []float64 { return clone(atm.zlay) }

// 地表面温度 [K]
func (atm *Atmosphere) Tsfc() float64 { return atm.tsfc }

// コールドポイント
func (atm *Atmosphere) Icold() int { return atm.icold }
func (atm *Atmosphere) Tcold() float64 { return atm.tPrimary()[atm.icold] }
func (atm *Atmosphere) Pcold() float64 { return atm.pPrimary()[atm.icold] }
func (atm *Atmosphere) Zcold() float64 { return atm.zPrimary()[atm.icold] }
func (atm *Atmosphere) Iwarm() int { return atm.iwarm }
func (atm *Atmosphere) Twarm() float64 { return atm.tPrimary()[atm.iwarm] }
func (atm *Atmosphere) Pwarm() float64 { return atm.pPrimary()[atm.iwarm] }
func (atm *Atmosphere) Zwarm() float64 { return atm.zPrimary()[atm.iwarm] }
func (atm *Atmosphere) ColdPointBand() (float64, float64) {
	return atm.coldPMin, atm.coldPMax
}

// 対流圏界のインデックス。未設定の場合はコールドポイントを返す。
func (atm *Atmosphere) Iconv() int {
	if !atm.iconvSet {
		logger().Warnf("対流上端が未設定のためコールドポイントを使用します (icold=%d)", atm.icold)
		return atm.icold
	}
	return atm.iconv
}

// IconvSet は対流上端が設定済みかどうか
func (atm *Atmosphere) IconvSet() bool { return atm.iconvSet }

func (atm *Atmosphere) Tconv() float64 { return atm.tPrimary()[atm.Iconv()] }
func (atm *Atmosphere) Pconv() float64 { return atm.pPrimary()[atm.Iconv()] }
func (atm *Atmosphere) Zconv() float64 { return atm.zPrimary()[atm.Iconv()] }

//--------------------------------------
// 更新
//--------------------------------------

func (atm *Atmosphere) checkLen(name string, v []float64) error {
	if len(v) != atm.Len() {
		return &FieldError{Field: name, Err: ErrLengthMismatch}
	}
	return nil
}

// 主格子の気温 [K] を設定する
func (atm *Atmosphere) SetT(t []float64) error {
	if err := atm.checkLen("t", t); err != nil {
		return err
	}
	if atm.gridStagger {
		atm.tlay = clampTs(t)
	} else {
		atm.tlev = clampTs(t)
	}
	atm.refresh()
	return nil
}

// 主格子の混合比 [g/g] を設定する。holdrh の場合は次の再計算で上書きされる。
func (atm *Atmosphere) SetQ(q []float64) error {
	if err := atm.checkLen("q", q); err != nil {
		return err
	}
	if atm.holdRH {
		logger().Warnf("holdrh=true のため設定した混合比は相対湿度から再計算されます")
	}
	if atm.gridStagger {
		atm.qlay = EnforceQGradient(q)
	} else {
		atm.qlev = EnforceQGradient(q)
	}
	atm.refresh()
	return nil
}

// 主格子の相対湿度 [-] を設定する。holdrh=false の場合は次の再計算で上書きされる。
func (atm *Atmosphere) SetRH(rh []float64) error {
	if err := atm.checkLen("rh", rh); err != nil {
		return err
	}
	if !atm.holdRH {
		logger().Warnf("holdrh=false のため設定した相対湿度は混合比から再計算されます")
	}
	if atm.gridStagger {
		atm.rhlay = clampRH(rh)
	} else {
		atm.rhlev = clampRH(rh)
	}
	atm.refresh()
	return nil
}

// 主格子のオゾン混合比 [g/g] を設定する
func (atm *Atmosphere) SetO3(o3 []float64) error {
	if err := atm.checkLen("o3", o3); err != nil {
		return err
	}
	if atm.gridStagger {
		atm.o3lay = floorZero(o3)
	} else {
		atm.o3lev = floorZero(o3)
	}
	atm.refresh()
	return nil
}

// 地表面温度 [K] を設定する
func (atm *Atmosphere) SetTsfc(tsfc float64) {
	atm.tsfc = clampT(tsfc)
}

// 水蒸気の保持方法を切り替え、保持しない側を再計算する
func (atm *Atmosphere) SetHoldRH(v bool) {
	if atm.holdRH == v {
		return
	}
	atm.holdRH = v
	atm.refresh()
}

// 対流上端のインデックスを設定する
func (atm *Atmosphere) SetIconv(i int) error {
	if i < 0 || i >= atm.Len() {
		return &FieldError{Field: "iconv", Err: fmt.Errorf("index %d: %w", i, ErrInvalidOption)}
	}
	atm.iconv = i
	atm.iconvSet = true
	return nil
}

// 複製を作成する
func (atm *Atmosphere) Clone() *Atmosphere {
	c := *atm
	c.plev, c.play = clone(atm.plev), clone(atm.play)
	c.tlev, c.tlay = clone(atm.tlev), clone(atm.tlay)
	c.qlev, c.qlay = clone(atm.qlev), clone(atm.qlay)
	c.rhlev, c.rhlay = clone(atm.rhlev), clone(atm.rhlay)
	c.o3lev, c.o3lay = clone(atm.o3lev), clone(atm.o3lay)
	c.zlev, c.zlay = clone(atm.zlev), clone(atm.zlay)
	return &c
}
