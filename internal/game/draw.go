package game

import (
	"image/color"

	"chosenoffset.com/crewmate/internal/core/camera"
	"chosenoffset.com/crewmate/internal/render"
	"chosenoffset.com/crewmate/internal/world/entity"
)

var (
	clearColor  = color.RGBA{0x11, 0x11, 0x11, 0xff}
	shadowColor = color.NRGBA{0, 0, 0, 77}
	visorColor  = color.RGBA{0xa1, 0xe4, 0xf7, 0xff}
	labelColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// FrameRenderer draws one frame: the map background followed by every entity.
type FrameRenderer struct {
	renderer render.Renderer
	surface  string
	radius   float64
	frames   uint64
}

// NewFrameRenderer claims the named drawing surface and draws entity bodies
// of the given radius on it. A nil renderer or an empty surface name yields
// an inert frame renderer.
func NewFrameRenderer(r render.Renderer, surface string, radius float64) *FrameRenderer {
	return &FrameRenderer{renderer: r, surface: surface, radius: radius}
}

// Ready reports whether frames can be drawn at all.
func (f *FrameRenderer) Ready() bool {
	return f.renderer != nil && f.surface != ""
}

// Surface returns the name of the claimed drawing surface.
func (f *FrameRenderer) Surface() string {
	return f.surface
}

// Frames returns how many frames have been rendered.
func (f *FrameRenderer) Frames() uint64 {
	return f.frames
}

// RenderFrame clears dst and draws the background offset by the camera, then
// each entity in slice order. The entity slice is not retained.
func (f *FrameRenderer) RenderFrame(dst render.Image, entities []*entity.Entity, background render.Image, cam *camera.Camera) {
	if !f.Ready() || dst == nil || cam == nil {
		return
	}
	f.frames++

	dst.Fill(clearColor)

	if background != nil {
		ox, oy := cam.ToScreen(0, 0)
		opts := &render.DrawImageOptions{}
		opts.GeoM = render.NewGeoM()
		opts.GeoM.Translate(ox, oy)
		dst.DrawImage(background, opts)
	}

	for _, e := range entities {
		f.drawEntity(dst, e, cam)
	}
}

func (f *FrameRenderer) drawEntity(dst render.Image, e *entity.Entity, cam *camera.Camera) {
	sx, sy := cam.ToScreen(e.X, e.Y)
	r := f.radius

	// Shadow
	f.renderer.FillEllipse(dst, float32(sx), float32(sy+r*0.85), float32(r), float32(r*0.4), shadowColor)

	// Body
	f.renderer.FillCircle(dst, float32(sx), float32(sy), float32(r), e.Color)

	// Visor on the side the entity faces
	visorX := sx + r*0.5
	if e.FacingLeft {
		visorX = sx - r*0.5
	}
	f.renderer.FillEllipse(dst, float32(visorX), float32(sy-r*0.25), float32(r*0.6), float32(r*0.4), visorColor)

	// Name tag
	_, h := f.renderer.MeasureText(e.Name)
	f.renderer.DrawText(dst, e.Name, sx, sy-r-h-4, labelColor, render.AlignCenter)
}
