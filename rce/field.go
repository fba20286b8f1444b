package rce

import "sort"

// 名前によるフィールドアクセス
type fieldAccess struct {
	get func(*Atmosphere) []float64
	set func(*Atmosphere, []float64) error // nil は読み取り専用
}

var fields = map[string]fieldAccess{
	"t":     {get: (*Atmosphere).T, set: (*Atmosphere).SetT},
	"q":     {get: (*Atmosphere).Q, set: (*Atmosphere).SetQ},
	"rh":    {get: (*Atmosphere).RH, set: (*Atmosphere).SetRH},
	"o3":    {get: (*Atmosphere).O3, set: (*Atmosphere).SetO3},
	"p":     {get: (*Atmosphere).P},
	"z":     {get: (*Atmosphere).Z},
	"plev":  {get: (*Atmosphere).PLev},
	"play":  {get: (*Atmosphere).PLay},
	"zlev":  {get: (*Atmosphere).ZLev},
	"zlay":  {get: (*Atmosphere).ZLay},
	"tlev":  {get: (*Atmosphere).TLev},
	"tlay":  {get: (*Atmosphere).TLay},
	"qlev":  {get: (*Atmosphere).QLev},
	"qlay":  {get: (*Atmosphere).QLay},
	"rhlev": {get: (*Atmosphere).RHLev},
	"rhlay": {get: (*Atmosphere).RHLay},
	"o3lev": {get: (*Atmosphere).O3Lev},
	"o3lay": {get: (*Atmosphere).O3Lay},
}

// FieldNames は名前で参照できるフィールドの一覧
func FieldNames() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 名前でフィールドを参照する
func (atm *Atmosphere) Get(name string) ([]float64, error) {
	f, ok := fields[name]
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrUnknownField}
	}
	return f.get(atm), nil
}

// """名前でフィールドを設定する
// Args:
//
//	name(string): t, q, rh, o3 のいずれか
//	values([]float64): 主格子上の値
//
// Returns:
//
//	error: 気圧や高度など読み取り専用のフィールドの場合は ErrImmutableField
//
// """
func (atm *Atmosphere) Set(name string, values []float64) error {
	f, ok := fields[name]
	if !ok {
		return &FieldError{Field: name, Err: ErrUnknownField}
	}
	if f.set == nil {
		return &FieldError{Field: name, Err: ErrImmutableField}
	}
	return f.set(atm, values)
}
