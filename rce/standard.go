package rce

import "fmt"

// """標準大気プロファイルのファイルから大気プロファイルを作成する
// Args:
//
//	path(string): 標準大気プロファイルのファイルパス
//	opts(...Option): Levels を与えた場合はその気圧に補間する。
//	                 Temperature などを与えた場合はファイルの値より優先する。
//
// Returns:
//
//	*Atmosphere: 作成した大気プロファイル
//
// Note:
//
//	GridStagger を与えない場合は true とする。
//	RelativeHumidity を与えた場合はファイルの混合比を使用しない。
//
// """
func FromProfileFile(path string, opts ...Option) (*Atmosphere, error) {
	pf, err := ReadProfile(path)
	if err != nil {
		return nil, err
	}
	logger().Infof("標準大気プロファイル読み込み: %s (%d層)", path, pf.Len())
	return FromProfile(pf, opts...)
}

// 読み込み済みのプロファイルから大気プロファイルを作成する
func FromProfile(pf *Profile, opts ...Option) (*Atmosphere, error) {
	c, err := newAtmosphereConfig(opts)
	if err != nil {
		return nil, err
	}
	if c.gridStagger == nil {
		stagger := true
		c.gridStagger = &stagger
	}
	if c.plev == nil {
		c.plev = append([]float64{}, pf.P...)
	}
	if len(c.plev) < 2 || !strictlyIncreasing(c.plev) {
		return nil, ErrInvalidGrid
	}
	if c.t == nil {
		c.t = Interp(pf.P, pf.T, c.plev)
	}
	if c.q == nil && c.rh == nil {
		c.q = Interp(pf.P, pf.Q, c.plev)
	}
	if c.o3 == nil {
		c.o3 = Interp(pf.P, pf.O3, c.plev)
	}
	return c.build()
}

// オゾンプロファイルのファイルを読み込み気圧 p [hPa] に補間する (0以上)
func OzoneFromFile(path string, p []float64) ([]float64, error) {
	ps, o3s, err := ReadOzoneProfile(path)
	if err != nil {
		return nil, err
	}
	return floorZero(Interp(ps, o3s, p)), nil
}

// オゾンプロファイルのファイルを読み込み主格子のオゾンを上書きする
func (atm *Atmosphere) SetOzoneFromFile(path string) error {
	o3, err := OzoneFromFile(path, atm.pPrimary())
	if err != nil {
		return fmt.Errorf("ozone: %w", err)
	}
	logger().Infof("オゾンプロファイル読み込み: %s", path)
	return atm.SetO3(o3)
}
