package rce

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// """空白区切りの表を読み込みます。1行目はヘッダとして読み飛ばします。
// Args:
//
//	path(string): ファイルパス (拡張子 .gz の場合は gzip 圧縮)
//	usecols([]int): 読み込む列番号
//
// Returns:
//
//	[][]float64: usecols の順の列データ
//	error: 読み込みエラー
//
// """
func readTable(path string, usecols []int) ([][]float64, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("profile %s: %w", path, os.ErrNotExist)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gf, gerr := gzip.NewReader(f)
		if gerr != nil {
			return nil, fmt.Errorf("profile %s: %w", path, gerr)
		}
		defer gf.Close()
		r = gf
	}

	logger().Debugf("プロファイル読み込み: %s", path)

	cols := make([][]float64, len(usecols))
	scanner := bufio.NewScanner(r)
	header := true
	line := 0
	for scanner.Scan() {
		line++
		if header {
			header = false
			continue
		}
		row := strings.Fields(scanner.Text())
		if len(row) == 0 {
			continue
		}
		for j, c := range usecols {
			if c >= len(row) {
				return nil, fmt.Errorf("%s:%d: expected at least %d columns: %w", path, line, c+1, ErrProfileFormat)
			}
			v, perr := strconv.ParseFloat(row[c], 64)
			if perr != nil {
				return nil, fmt.Errorf("%s:%d: %v: %w", path, line, perr, ErrProfileFormat)
			}
			cols[j] = append(cols[j], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(cols) > 0 && len(cols[0]) == 0 {
		return nil, fmt.Errorf("%s: no data rows: %w", path, ErrProfileFormat)
	}
	return cols, nil
}

// """標準大気プロファイルを読み込みます。
// Args:
//
//	path(string): 気圧, 気温, 混合比, オゾンの4列のファイル
//
// Returns:
//
//	*Profile: 気圧の昇順に並べたプロファイル
//
// """
func ReadProfile(path string) (*Profile, error) {
	cols, err := readTable(path, []int{0, 1, 2, 3})
	if err != nil {
		return nil, err
	}
	pf := &Profile{P: cols[0], T: cols[1], Q: cols[2], O3: cols[3]}
	pf.sortAscending()
	return pf, nil
}

// オゾンプロファイル (気圧 [hPa], オゾン混合比 [g/g]) を気圧の昇順で読み込みます。
func ReadOzoneProfile(path string) (p []float64, o3 []float64, err error) {
	cols, err := readTable(path, []int{0, 1})
	if err != nil {
		return nil, nil, err
	}
	p, o3 = cols[0], cols[1]
	if len(p) > 1 && p[1] < p[0] {
		floats.Reverse(p)
		floats.Reverse(o3)
	}
	return p, o3, nil
}

// """加熱率プロファイルを読み込みます。
// Args:
//
//	path(string): 高度, 短波加熱率, 長波加熱率の3列のファイル
//
// Returns:
//
//	z([]float64): 高度 [m] (降順、地表が最後)
//	hrlw([]float64): 長波加熱率 [K/day]
//	hrsw([]float64): 短波加熱率 [K/day]
//
// Note:
//
//	高度が100を超えない場合は km とみなして m に換算します。
//
// """
func ReadHRProfile(path string) (z []float64, hrlw []float64, hrsw []float64, err error) {
	cols, err := readTable(path, []int{0, 2, 1})
	if err != nil {
		return nil, nil, nil, err
	}
	z, hrlw, hrsw = cols[0], cols[1], cols[2]

	if floats.Max(z) <= 100 {
		floats.Scale(1000, z)
	}
	if len(z) > 1 && z[1] > z[0] {
		floats.Reverse(z)
		floats.Reverse(hrlw)
		floats.Reverse(hrsw)
	}
	return z, hrlw, hrsw, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
