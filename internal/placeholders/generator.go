package placeholders

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// CellSize is the spacing of the placeholder floor grid in pixels
const CellSize = 40

// ColorPalette defines colors for placeholder map art (station theme)
var ColorPalette = struct {
	Floor      color.RGBA
	GridLine   color.RGBA
	MajorLine  color.RGBA
	Border     color.RGBA
	Spawn      color.RGBA
	TaskMarker color.RGBA
}{
	Floor:      color.RGBA{38, 44, 56, 255},   // Deck plating
	GridLine:   color.RGBA{52, 60, 76, 255},   // Minor seams
	MajorLine:  color.RGBA{70, 82, 104, 255},  // Every fifth seam
	Border:     color.RGBA{150, 160, 180, 255}, // Hull edge
	Spawn:      color.RGBA{0, 255, 100, 255},  // Bright green
	TaskMarker: color.RGBA{255, 215, 0, 255},  // Gold
}

// CreateGrid creates a floor image of the given size with a grid every
// cellSize pixels and a border around the edge.
func CreateGrid(width, height, cellSize int) *image.RGBA {
	if cellSize <= 0 {
		cellSize = CellSize
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{ColorPalette.Floor}, image.Point{}, draw.Src)

	for x := 0; x < width; x += cellSize {
		lineColor := ColorPalette.GridLine
		if (x/cellSize)%5 == 0 {
			lineColor = ColorPalette.MajorLine
		}
		for y := 0; y < height; y++ {
			img.Set(x, y, lineColor)
		}
	}
	for y := 0; y < height; y += cellSize {
		lineColor := ColorPalette.GridLine
		if (y/cellSize)%5 == 0 {
			lineColor = ColorPalette.MajorLine
		}
		for x := 0; x < width; x++ {
			img.Set(x, y, lineColor)
		}
	}

	// Draw borders
	const borderWidth = 3
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < width; x++ {
			img.Set(x, i, ColorPalette.Border)
			img.Set(x, height-1-i, ColorPalette.Border)
		}
		for y := 0; y < height; y++ {
			img.Set(i, y, ColorPalette.Border)
			img.Set(width-1-i, y, ColorPalette.Border)
		}
	}

	return img
}

// MarkPoint draws a small filled square centered on (cx, cy)
func MarkPoint(img *image.RGBA, cx, cy, size int, col color.RGBA) {
	half := size / 2
	rect := image.Rect(cx-half, cy-half, cx-half+size, cy-half+size).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{col}, image.Point{}, draw.Src)
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL encodes an image as a base64 PNG data URL
func DataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
