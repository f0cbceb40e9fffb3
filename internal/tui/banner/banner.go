// Package banner renders short titles as large block art using half-block characters.
package banner

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	fontSize  = 48
	padding   = 4
	threshold = 60
)

// Banner draws text with one font face and caches the results.
type Banner struct {
	face font.Face

	mu    sync.Mutex
	cache map[string]string
}

// New loads the font at fontPath (TrueType, OpenType or a collection). An
// empty path uses the bundled Go Bold font.
func New(fontPath string) (*Banner, error) {
	data := gobold.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		data = b
	}
	face, err := parseFace(data)
	if err != nil {
		return nil, err
	}
	return &Banner{face: face, cache: make(map[string]string)}, nil
}

func parseFace(data []byte) (font.Face, error) {
	opts := &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull}
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return opentype.NewFace(fnt, opts)
		}
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(fnt, opts)
}

// Render draws text rows terminal lines tall, no wider than maxCols cells.
// It returns "" when text is blank or the result would not fit.
func (b *Banner) Render(text string, rows, maxCols int) string {
	text = strings.TrimSpace(text)
	if text == "" || rows <= 0 || maxCols <= 0 {
		return ""
	}

	key := fmt.Sprintf("%s\x00%d\x00%d", text, rows, maxCols)
	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, ok := b.cache[key]; ok {
		return cached
	}

	src := b.draw(text)
	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()

	// One cell holds two vertical pixels, so cells are roughly square pixels.
	targetH := rows * 2
	cols := srcW * targetH / srcH
	if cols > maxCols {
		cols = 0
	}

	out := ""
	if cols > 0 {
		out = toHalfBlocks(scaleDown(src, cols, targetH), cols, rows)
	}
	b.cache[key] = out
	return out
}

func (b *Banner) draw(text string) *image.Gray {
	metrics := b.face.Metrics()
	width := font.MeasureString(b.face, text).Ceil()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()

	img := image.NewGray(image.Rect(0, 0, width+padding*2, height+padding*2))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: b.face,
		Dot:  fixed.P(padding, padding+ascent),
	}
	d.DrawString(text)
	return img
}

// scaleDown shrinks src by averaging the pixels of each destination area.
func scaleDown(src *image.Gray, dstW, dstH int) *image.Gray {
	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, dstW, dstH))

	xRatio := float64(srcW) / float64(dstW)
	yRatio := float64(srcH) / float64(dstH)

	for dy := range dstH {
		for dx := range dstW {
			sx1, sy1 := int(float64(dx)*xRatio), int(float64(dy)*yRatio)
			sx2, sy2 := min(int(float64(dx+1)*xRatio), srcW), min(int(float64(dy+1)*yRatio), srcH)

			sum, count := 0, 0
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

func toHalfBlocks(img *image.Gray, cols, rows int) string {
	var sb strings.Builder
	for row := range rows {
		for col := range cols {
			top := img.GrayAt(col, row*2).Y > threshold
			bottom := img.GrayAt(col, row*2+1).Y > threshold
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		if row < rows-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
