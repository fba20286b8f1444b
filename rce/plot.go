package rce

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// 図に描画する計算結果
type Series struct {
	Label  string
	Result *Result
}

// 気圧を縦軸 (対数, 上が低圧) とした図を作成する
func newProfilePlot(title string, xlabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "p (hPa)"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LogScale{}}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	return p
}

func profileXYs(x []float64, p []float64) plotter.XYs {
	xys := make(plotter.XYs, len(p))
	for i := range p {
		xys[i].X = x[i]
		xys[i].Y = p[i]
	}
	return xys
}

// """気温と加熱率の鉛直プロファイルを PNG で出力する
// Args:
//
//	w(io.Writer): 出力先
//	series(...Series): 計算結果
//
// Returns:
//
//	error: 描画エラー
//
// """
func WritePlot(w io.Writer, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("plot: no series: %w", ErrInvalidOption)
	}

	pT := newProfilePlot("Temperature", "T (K)")
	pHR := newProfilePlot("Heating rate", "HR (K/day)")

	for i, s := range series {
		atm := s.Result.Atmosphere
		p := atm.P()

		line, err := plotter.NewLine(profileXYs(atm.T(), p))
		if err != nil {
			return err
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		pT.Add(line)
		pT.Legend.Add(s.Label, line)

		if s.Result.HR == nil {
			continue
		}
		hrLine, err := plotter.NewLine(profileXYs(s.Result.HR.Net(), p))
		if err != nil {
			return err
		}
		hrLine.LineStyle.Color = plotutil.Color(i)
		hrLine.LineStyle.Width = vg.Points(1.5)
		pHR.Add(hrLine)
		pHR.Legend.Add(s.Label, hrLine)
	}

	img := vgimg.New(vg.Points(800), vg.Points(500))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align([][]*plot.Plot{{pT, pHR}}, tiles, dc)
	pT.Draw(canvases[0][0])
	pHR.Draw(canvases[0][1])

	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(w)
	return err
}
