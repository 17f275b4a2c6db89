package game

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"chosenoffset.com/crewmate/internal/render"
	"chosenoffset.com/crewmate/internal/world/mapstore"
)

type fakeGeoM struct {
	tx, ty float64
}

func (g *fakeGeoM) Translate(tx, ty float64) { g.tx += tx; g.ty += ty }

func init() {
	render.NewGeoM = func() render.GeoM { return &fakeGeoM{} }
}

// call records one drawing operation.
type call struct {
	op     string
	x, y   float64
	rx, ry float64
	clr    color.Color
	text   string
}

type fakeImage struct {
	w, h     int
	calls    *[]call
	disposed int
}

func (i *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.w, i.h) }
func (i *fakeImage) Size() (int, int)        { return i.w, i.h }
func (i *fakeImage) Fill(clr color.Color) {
	*i.calls = append(*i.calls, call{op: "fill", clr: clr})
}
func (i *fakeImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	c := call{op: "image"}
	if g, ok := opts.GeoM.(*fakeGeoM); ok {
		c.x, c.y = g.tx, g.ty
	}
	*i.calls = append(*i.calls, c)
}
func (i *fakeImage) Dispose() { i.disposed++ }

type fakeRenderer struct {
	calls  []call
	images []*fakeImage
}

func (r *fakeRenderer) screen(w, h int) *fakeImage {
	return &fakeImage{w: w, h: h, calls: &r.calls}
}

func (r *fakeRenderer) NewImageFromImage(src image.Image) render.Image {
	b := src.Bounds()
	img := r.screen(b.Dx(), b.Dy())
	r.images = append(r.images, img)
	return img
}
func (r *fakeRenderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.calls = append(r.calls, call{op: "circle", x: float64(x), y: float64(y), rx: float64(radius), ry: float64(radius), clr: clr})
}
func (r *fakeRenderer) FillEllipse(dst render.Image, x, y, rx, ry float32, clr color.Color) {
	r.calls = append(r.calls, call{op: "ellipse", x: float64(x), y: float64(y), rx: float64(rx), ry: float64(ry), clr: clr})
}
func (r *fakeRenderer) DrawText(dst render.Image, text string, x, y float64, clr color.Color, align render.TextAlign) {
	r.calls = append(r.calls, call{op: "text", x: x, y: y, text: text, clr: clr})
}
func (r *fakeRenderer) MeasureText(text string) (float64, float64) {
	return float64(len(text)) * 7, 14
}

func (r *fakeRenderer) ops() []string {
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.op
	}
	return ops
}

type fakeInput struct {
	mu   sync.Mutex
	keys map[render.Key]bool
	just map[render.Key]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{keys: map[render.Key]bool{}, just: map[render.Key]bool{}}
}

func (f *fakeInput) press(k render.Key, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[k] = down
}

func (f *fakeInput) IsKeyPressed(k render.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[k]
}

func (f *fakeInput) IsKeyJustPressed(k render.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.just[k]
}

func (f *fakeInput) GetCursorPosition() (int, int)                  { return 0, 0 }
func (f *fakeInput) IsMouseButtonPressed(b render.MouseButton) bool { return false }
func (f *fakeInput) IsFocused() bool                                { return true }

// manualClock only advances when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// memoryStore serves records and raw asset bytes from memory.
type memoryStore struct {
	records []mapstore.Record
	assets  map[string][]byte
	err     error
}

func (m *memoryStore) QueryAllMaps(ctx context.Context) ([]mapstore.Record, error) {
	return m.records, m.err
}

func (m *memoryStore) ReadAsset(ctx context.Context, ref string) ([]byte, error) {
	data, ok := m.assets[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mapstore.ErrNotFound, ref)
	}
	return data, nil
}
