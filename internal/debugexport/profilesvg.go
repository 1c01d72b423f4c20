package debugexport

import (
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/ifcproc/ifcproc/internal/geomproc/profile"
)

// WriteProfileSVG dumps a Profile2D's outer loop (filled) and hole loops
// (outlined) to an SVG file for visually checking profile/void output.
// scale maps profile units to SVG pixels; margin pads the viewport.
func WriteProfileSVG(path string, p profile.Profile2D, scale, margin float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	minX, minY, maxX, maxY := profileBounds(p)
	width := int((maxX-minX)*scale + 2*margin)
	height := int((maxY-minY)*scale + 2*margin)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	toX := func(x float64) int { return int((x-minX)*scale + margin) }
	toY := func(y float64) int { return height - int((y-minY)*scale+margin) }

	canvas := svg.New(f)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	xs, ys := loopPoints(p.Outer, toX, toY)
	canvas.Polygon(xs, ys, "fill:lightgrey;stroke:black;stroke-width:2")

	for _, hole := range p.Holes {
		hxs, hys := loopPoints(hole, toX, toY)
		canvas.Polygon(hxs, hys, "fill:white;stroke:red;stroke-width:1")
	}

	canvas.End()
	return nil
}

func loopPoints(loop []profile.Point2, toX, toY func(float64) int) ([]int, []int) {
	xs := make([]int, len(loop))
	ys := make([]int, len(loop))
	for i, pt := range loop {
		xs[i] = toX(pt.X)
		ys[i] = toY(pt.Y)
	}
	return xs, ys
}

func profileBounds(p profile.Profile2D) (minX, minY, maxX, maxY float64) {
	first := true
	consider := func(pt profile.Point2) {
		if first {
			minX, maxX = pt.X, pt.X
			minY, maxY = pt.Y, pt.Y
			first = false
			return
		}
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	for _, pt := range p.Outer {
		consider(pt)
	}
	for _, hole := range p.Holes {
		for _, pt := range hole {
			consider(pt)
		}
	}
	return
}
