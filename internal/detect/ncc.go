package detect

import (
	"image"
	"math"
)

// grayFrame is a luminance plane used for matching
type grayFrame struct {
	w, h int
	pix  []float64
}

func newGrayFrame(img image.Image) *grayFrame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &grayFrame{w: w, h: h, pix: make([]float64, w*h)}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			// ITU-R BT.601 luma from 16-bit channels
			g.pix[i] = 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)
			i++
		}
	}
	return g
}

func (g *grayFrame) at(x, y int) float64 {
	return g.pix[y*g.w+x]
}

// matchResult is the best placement found by matchTemplate
type matchResult struct {
	X, Y  int // top-left of the template placement
	Score float64
}

// matchTemplate slides tmpl over frame and returns the placement with the
// highest zero-mean normalized cross-correlation score. Equivalent to
// OpenCV's TM_CCOEFF_NORMED followed by minMaxLoc.
func matchTemplate(frame, tmpl *grayFrame) matchResult {
	best := matchResult{Score: -1}
	if tmpl.w > frame.w || tmpl.h > frame.h || tmpl.w == 0 || tmpl.h == 0 {
		return best
	}

	// Zero-mean template and its norm, computed once
	n := float64(tmpl.w * tmpl.h)
	var tSum float64
	for _, v := range tmpl.pix {
		tSum += v
	}
	tMean := tSum / n
	zt := make([]float64, len(tmpl.pix))
	var tNormSq float64
	for i, v := range tmpl.pix {
		zt[i] = v - tMean
		tNormSq += zt[i] * zt[i]
	}
	if tNormSq == 0 {
		// Flat template matches nothing meaningful
		return best
	}
	tNorm := math.Sqrt(tNormSq)

	maxX := frame.w - tmpl.w
	maxY := frame.h - tmpl.h

	// Coarse scan with a small stride, then refine around the best hit.
	// Same shape as the stride/refine options of pure-Go NCC matchers.
	stride := 1
	if maxX > 64 && maxY > 64 {
		stride = 2
	}
	for y := 0; y <= maxY; y += stride {
		for x := 0; x <= maxX; x += stride {
			score := nccAt(frame, tmpl, zt, tNorm, x, y)
			if score > best.Score {
				best = matchResult{X: x, Y: y, Score: score}
			}
		}
	}
	if stride > 1 && best.Score > -1 {
		for y := max(0, best.Y-stride); y <= min(maxY, best.Y+stride); y++ {
			for x := max(0, best.X-stride); x <= min(maxX, best.X+stride); x++ {
				score := nccAt(frame, tmpl, zt, tNorm, x, y)
				if score > best.Score {
					best = matchResult{X: x, Y: y, Score: score}
				}
			}
		}
	}
	return best
}

// nccAt scores one placement of the template at (ox, oy)
func nccAt(frame, tmpl *grayFrame, zt []float64, tNorm float64, ox, oy int) float64 {
	n := float64(tmpl.w * tmpl.h)

	var fSum, fSumSq, dot float64
	i := 0
	for ty := 0; ty < tmpl.h; ty++ {
		row := (oy+ty)*frame.w + ox
		for tx := 0; tx < tmpl.w; tx++ {
			fv := frame.pix[row+tx]
			fSum += fv
			fSumSq += fv * fv
			dot += fv * zt[i]
			i++
		}
	}

	fVar := fSumSq - fSum*fSum/n
	if fVar <= 0 {
		return 0
	}
	// Σ zt == 0, so the zero-mean numerator reduces to the raw dot product
	return dot / (math.Sqrt(fVar) * tNorm)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
