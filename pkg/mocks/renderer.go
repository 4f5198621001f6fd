package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/vidmark/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// Texts records every string drawn on any canvas it created.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	mu    sync.Mutex
	Texts []string
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return &Canvas{width: width, height: height, renderer: m}
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas. Text measures 7 pixels per byte.
type Canvas struct {
	width    int
	height   int
	renderer *Renderer
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	if m.renderer == nil {
		return
	}
	m.renderer.mu.Lock()
	m.renderer.Texts = append(m.renderer.Texts, text)
	m.renderer.mu.Unlock()
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text) * 7), 13
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
