package ebiten

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"

	"chosenoffset.com/crewmate/internal/render"
)

// labelSize is the point size of the label face.
const labelSize = 14

// ellipseSegments is the number of fan triangles used for ellipses.
const ellipseSegments = 32

// EbitenRenderer implements the Renderer interface using Ebiten.
type EbitenRenderer struct {
	face     *text.GoTextFace
	whiteImg *ebiten.Image
}

// init sets up the global functions for the ebiten render.
func init() {
	render.NewGeoM = func() render.GeoM {
		return NewGeoM()
	}
}

// NewRenderer creates a new Ebiten-based render.
func NewRenderer() render.Renderer {
	r := &EbitenRenderer{}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Printf("Warning: Failed to load label font, using debug font: %v", err)
		return r
	}
	r.face = &text.GoTextFace{Source: src, Size: labelSize}
	return r
}

// NewImageFromImage uploads a decoded bitmap as a drawable image.
func (r *EbitenRenderer) NewImageFromImage(src image.Image) render.Image {
	return &EbitenImage{img: ebiten.NewImageFromImage(src)}
}

// FillCircle draws a filled circle on the destination image.
func (r *EbitenRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	vector.FillCircle(ebitenImg, x, y, radius, clr, true)
}

// FillEllipse draws an axis-aligned filled ellipse as a triangle fan.
func (r *EbitenRenderer) FillEllipse(dst render.Image, x, y, radiusX, radiusY float32, clr color.Color) {
	ebitenImg := dst.(*EbitenImage).img
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	cr := float32(c.R) / 255
	cg := float32(c.G) / 255
	cb := float32(c.B) / 255
	ca := float32(c.A) / 255

	vertices := make([]ebiten.Vertex, 0, ellipseSegments+1)
	indices := make([]uint16, 0, ellipseSegments*3)
	vertices = append(vertices, ebiten.Vertex{DstX: x, DstY: y, SrcX: 1, SrcY: 1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca})
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		vertices = append(vertices, ebiten.Vertex{
			DstX:   x + radiusX*float32(math.Cos(a)),
			DstY:   y + radiusY*float32(math.Sin(a)),
			SrcX:   1,
			SrcY:   1,
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
		next := uint16(i+1)%ellipseSegments + 1
		indices = append(indices, 0, uint16(i+1), next)
	}

	ebitenImg.DrawTriangles(vertices, indices, r.white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// white returns a 1x1 opaque source region for untextured triangles.
func (r *EbitenRenderer) white() *ebiten.Image {
	if r.whiteImg == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.whiteImg = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.whiteImg
}

// DrawText draws text with its top edge at y. x is interpreted according to align.
// Falls back to the debug font (always white, left aligned) when no face is loaded.
func (r *EbitenRenderer) DrawText(dst render.Image, str string, x, y float64, clr color.Color, align render.TextAlign) {
	ebitenImg := dst.(*EbitenImage).img

	if r.face == nil {
		w, _ := r.MeasureText(str)
		switch align {
		case render.AlignCenter:
			x -= w / 2
		case render.AlignEnd:
			x -= w
		}
		ebitenutil.DebugPrintAt(ebitenImg, str, int(x), int(y))
		return
	}

	opts := &text.DrawOptions{}
	opts.GeoM.Translate(x, y)
	opts.ColorScale.ScaleWithColor(clr)
	switch align {
	case render.AlignCenter:
		opts.PrimaryAlign = text.AlignCenter
	case render.AlignEnd:
		opts.PrimaryAlign = text.AlignEnd
	default:
		opts.PrimaryAlign = text.AlignStart
	}
	text.Draw(ebitenImg, str, r.face, opts)
}

// MeasureText measures the width and height of text in the label face.
func (r *EbitenRenderer) MeasureText(str string) (width, height float64) {
	if r.face == nil {
		// Debug font is approximately 6x13 pixels per character
		return float64(len(str)) * 6, 13
	}
	return text.Measure(str, r.face, 0)
}

// EbitenImage wraps an ebiten.Image to implement the render.Image interface.
type EbitenImage struct {
	img *ebiten.Image
}

// Bounds returns the bounds of the image.
func (i *EbitenImage) Bounds() image.Rectangle {
	return i.img.Bounds()
}

// Size returns the width and height of the image.
func (i *EbitenImage) Size() (width, height int) {
	return i.img.Bounds().Dx(), i.img.Bounds().Dy()
}

// Fill fills the entire image with the given color.
func (i *EbitenImage) Fill(clr color.Color) {
	i.img.Fill(clr)
}

// Dispose releases the image resources.
func (i *EbitenImage) Dispose() {
	if i.img != nil {
		i.img.Dispose()
		i.img = nil
	}
}

// DrawImage draws the source image onto this image.
func (i *EbitenImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	srcImg := src.(*EbitenImage).img

	if opts == nil {
		i.img.DrawImage(srcImg, nil)
		return
	}

	ebitenOpts := &ebiten.DrawImageOptions{}
	if opts.GeoM != nil {
		ebitenGeoM := opts.GeoM.(*EbitenGeoM)
		ebitenOpts.GeoM = ebitenGeoM.geoM
	}

	i.img.DrawImage(srcImg, ebitenOpts)
}

// EbitenGeoM wraps ebiten's GeoM to implement the render.GeoM interface.
type EbitenGeoM struct {
	geoM ebiten.GeoM
}

// NewGeoM creates a new geometric transformation matrix.
func NewGeoM() render.GeoM {
	return &EbitenGeoM{geoM: ebiten.GeoM{}}
}

// Translate shifts the image by (tx, ty).
func (g *EbitenGeoM) Translate(tx, ty float64) {
	g.geoM.Translate(tx, ty)
}

// EbitenInputManager implements the InputManager interface using Ebiten.
type EbitenInputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() render.InputManager {
	return &EbitenInputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *EbitenInputManager) IsKeyPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && ebiten.IsKeyPressed(k)
}

// IsKeyJustPressed returns whether the specified key was just pressed this frame.
func (m *EbitenInputManager) IsKeyJustPressed(key render.Key) bool {
	k, ok := keyToEbitenKey(key)
	return ok && inpututil.IsKeyJustPressed(k)
}

// GetCursorPosition returns the current cursor position.
func (m *EbitenInputManager) GetCursorPosition() (x, y int) {
	return ebiten.CursorPosition()
}

// IsMouseButtonPressed returns whether the specified mouse button is currently pressed.
func (m *EbitenInputManager) IsMouseButtonPressed(button render.MouseButton) bool {
	return button == render.MouseButtonLeft && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// IsFocused returns whether the window has input focus.
func (m *EbitenInputManager) IsFocused() bool {
	return ebiten.IsFocused()
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) (ebiten.Key, bool) {
	switch key {
	case render.KeyW:
		return ebiten.KeyW, true
	case render.KeyA:
		return ebiten.KeyA, true
	case render.KeyS:
		return ebiten.KeyS, true
	case render.KeyD:
		return ebiten.KeyD, true
	case render.KeyEscape:
		return ebiten.KeyEscape, true
	default:
		return 0, false
	}
}

// EbitenEngine implements the Engine interface using Ebiten.
type EbitenEngine struct{}

// NewEngine creates a new Ebiten-based game engine.
func NewEngine() render.Engine {
	return &EbitenEngine{}
}

// SetWindowSize sets the window size in pixels.
func (e *EbitenEngine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *EbitenEngine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *EbitenEngine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// SyncWithDisplay makes the tick rate follow the display refresh rate.
func (e *EbitenEngine) SyncWithDisplay() {
	ebiten.SetVsyncEnabled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
}

// RunGame runs the game loop with the provided game.
func (e *EbitenEngine) RunGame(game render.Game) error {
	err := ebiten.RunGame(&gameAdapter{game: game})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a render.Game to ebiten.Game interface.
type gameAdapter struct {
	game render.Game
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	err := a.game.Update()
	if errors.Is(err, render.ErrTerminated) {
		return ebiten.Termination
	}
	return err
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	a.game.Draw(&EbitenImage{img: screen})
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.game.Layout(outsideWidth, outsideHeight)
}
