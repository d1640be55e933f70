package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/jhoicas/rankitpro-api/internal/application/ports"
)

var _ ports.ImageProcessor = (*Thumbnailer)(nil)

// Thumbnailer reescala imágenes JPEG/PNG/WebP con Catmull-Rom.
type Thumbnailer struct{}

// NewThumbnailer constructor.
func NewThumbnailer() *Thumbnailer { return &Thumbnailer{} }

// Thumbnail devuelve un JPEG de ancho maxWidth (o el original si ya es más angosto).
func (Thumbnailer) Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail: decodificar imagen: %w", err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxWidth && maxWidth > 0 {
		h = h * maxWidth / w
		w = maxWidth
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("thumbnail: codificar jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
