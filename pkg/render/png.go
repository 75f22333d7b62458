package render

import (
	"errors"
	"image"
	"io"
	"math"

	"github.com/0x0FACED/go-trendlines/pkg/trend"
	"github.com/fogleman/gg"
)

var ErrBadSize = errors.New("render: image size must leave room for the padding")

// Image rasterizes the polylines of res, black on white, fitted into a
// size x size square. The image keeps the aspect ratio of the lines and
// is never larger than size on either side.
func Image(res *trend.Result, size int, lineWidth float64) (image.Image, error) {
	pad := size / 20
	if size-pad*2 < 1 {
		return nil, ErrBadSize
	}

	if res == nil || len(res.Polylines) == 0 {
		dc := gg.NewContext(size, size)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		return dc.Image(), nil
	}

	first := res.Vertices[res.Polylines[0].Vertices[0]]
	x0, x1 := first.X, first.X
	y0, y1 := first.Y, first.Y
	for _, pl := range res.Polylines {
		for _, v := range pl.Vertices {
			p := res.Vertices[v]
			x0 = math.Min(x0, p.X)
			x1 = math.Max(x1, p.X)
			y0 = math.Min(y0, p.Y)
			y1 = math.Max(y1, p.Y)
		}
	}
	pw := x1 - x0
	ph := y1 - y0
	extent := math.Max(pw, ph)
	if extent == 0 {
		extent = 1
	}
	scale := float64(size-pad*2) / extent

	dc := gg.NewContext(int(pw*scale)+pad*2, int(ph*scale)+pad*2)
	dc.InvertY()
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Translate(float64(pad), float64(pad))
	dc.Scale(scale, scale)
	dc.Translate(-x0, -y0)

	for _, pl := range res.Polylines {
		dc.NewSubPath()
		for _, v := range pl.Vertices {
			p := res.Vertices[v]
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(lineWidth)
	dc.SetLineCapRound()
	dc.Stroke()

	return dc.Image(), nil
}

// PNG writes Image as PNG.
func PNG(w io.Writer, res *trend.Result, size int, lineWidth float64) error {
	im, err := Image(res, size, lineWidth)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(im).EncodePNG(w)
}
