// Package overlay composes a video frame with its status bar.
package overlay

import (
	"image"
	"image/color"

	"github.com/user/vidmark/pkg/ports"
)

const (
	// BarHeight is the height of the status bar below the frame.
	BarHeight = 24
	padding   = 6
)

var (
	barColor  = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	textStyle = ports.TextStyle{FontSize: 13, Color: color.RGBA{R: 240, G: 240, B: 240, A: 255}, Align: ports.AlignLeft}
)

// Compose returns the frame, scaled down to maxWidth when it is wider (0 keeps the size),
// with the status text on a bar underneath. Text wider than the bar is cut with "...".
func Compose(r ports.Renderer, frame image.Image, status string, maxWidth int) image.Image {
	if frame == nil {
		frame = image.NewRGBA(image.Rect(0, 0, 320, 180))
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
		frame = r.ResizeImage(frame, w, h)
	}

	canvas := r.CreateCanvas(w, h+BarHeight, barColor)
	canvas.DrawImage(frame, 0, 0)
	canvas.DrawText(fit(canvas, status, float64(w-2*padding)), padding, h+BarHeight/2, textStyle)
	return canvas.ToImage()
}

func fit(c ports.Canvas, text string, width float64) string {
	if tw, _ := c.MeasureText(text, textStyle); tw <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + "..."
		if tw, _ := c.MeasureText(candidate, textStyle); tw <= width {
			return candidate
		}
	}
	return ""
}
