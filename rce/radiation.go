package rce

import (
	"fmt"
	"strings"
)

// 放射モデル
//
// 大気プロファイルと組成・放射パラメータから境界上の放射フラックスを返す。
// フラックスは気圧の昇順 (上端から地表) で返すこと。
type Model interface {
	Radiation(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error)
}

// ModelFunc は関数を Model として扱うためのアダプタ
type ModelFunc func(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error)

func (f ModelFunc) Radiation(atm *Atmosphere, chem ChemParm, lw LWParm, sw SWParm) (*Flux, error) {
	return f(atm, chem, lw, sw)
}

// 放射モデルの種類
type ModelKind int

const (
	ModelGray ModelKind = iota + 1 // 灰色大気の2方向近似
	ModelRRTMG                     // RRTMG (ネイティブライブラリ)
	ModelFu                        // Fu-Liou (ネイティブライブラリ)
)

var modelNames = map[ModelKind]string{
	ModelGray:  "gray",
	ModelRRTMG: "rrtmg",
	ModelFu:    "fu",
}

func (k ModelKind) String() string {
	if s, ok := modelNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ModelKind(%d)", int(k))
}

// ModelNames は指定できる放射モデル名の一覧
func ModelNames() []string {
	return []string{"gray", "rrtmg", "fu"}
}

// 名前から放射モデルの種類を求める
func ParseModelKind(name string) (ModelKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, ErrMissingModel
	}
	for k, s := range modelNames {
		if s == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownModel)
}

// 放射モデルを作成する
func NewModel(kind ModelKind) (Model, error) {
	switch kind {
	case ModelGray:
		return NewGrayModel(), nil
	case ModelRRTMG, ModelFu:
		return nil, fmt.Errorf("%s: %w", kind, ErrModelUnavailable)
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownModel)
	}
}

// 名前から放射モデルを作成する
func NewModelByName(name string) (Model, error) {
	kind, err := ParseModelKind(name)
	if err != nil {
		return nil, err
	}
	return NewModel(kind)
}
