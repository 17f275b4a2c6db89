package game

import (
	"image/color"
	"reflect"
	"testing"

	"chosenoffset.com/crewmate/internal/core/camera"
	"chosenoffset.com/crewmate/internal/world/entity"
)

func TestRenderFrameOrder(t *testing.T) {
	r := &fakeRenderer{}
	f := NewFrameRenderer(r, "world-canvas", 20)
	cam := &camera.Camera{X: 100, Y: 50}

	a := entity.New("a", "Alpha", 300, 200, color.RGBA{0xff, 0, 0, 0xff})
	b := entity.New("b", "Beta", 400, 250, color.RGBA{0, 0, 0xff, 0xff})
	f.RenderFrame(r.screen(800, 600), []*entity.Entity{a, b}, r.screen(1000, 1000), cam)

	want := []string{
		"fill", "image",
		"ellipse", "circle", "ellipse", "text",
		"ellipse", "circle", "ellipse", "text",
	}
	if got := r.ops(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	if f.Frames() != 1 {
		t.Errorf("frames = %d, want 1", f.Frames())
	}

	if bg := r.calls[1]; bg.x != -100 || bg.y != -50 {
		t.Errorf("background at (%v, %v), want (-100, -50)", bg.x, bg.y)
	}
	if body := r.calls[3]; body.x != 200 || body.y != 150 || body.clr != a.Color {
		t.Errorf("first body = %+v, want Alpha at (200, 150)", body)
	}
	if label := r.calls[9]; label.text != "Beta" {
		t.Errorf("last label = %q, want Beta", label.text)
	}
}

func TestRenderFrameEntityShape(t *testing.T) {
	r := &fakeRenderer{}
	f := NewFrameRenderer(r, "world-canvas", 20)
	e := entity.New("a", "Red", 100, 100, color.RGBA{0xff, 0, 0, 0xff})

	f.RenderFrame(r.screen(800, 600), []*entity.Entity{e}, nil, camera.New())

	shadow, visor, label := r.calls[1], r.calls[3], r.calls[4]
	if shadow.y != 117 || shadow.rx != 20 || shadow.ry != 8 {
		t.Errorf("shadow = %+v, want below the body", shadow)
	}
	if shadow.clr != (color.NRGBA{0, 0, 0, 77}) {
		t.Errorf("shadow color = %v", shadow.clr)
	}
	if visor.x != 110 || visor.y != 95 {
		t.Errorf("visor at (%v, %v), want (110, 95)", visor.x, visor.y)
	}
	if label.text != "Red" || label.y != 100-20-14-4 {
		t.Errorf("label = %+v, want above the body", label)
	}

	r.calls = nil
	e.SetDirection(-1, 0)
	f.RenderFrame(r.screen(800, 600), []*entity.Entity{e}, nil, camera.New())
	if visor := r.calls[3]; visor.x != 90 {
		t.Errorf("visor x facing left = %v, want 90", visor.x)
	}
}

func TestRenderFrameWithoutRenderer(t *testing.T) {
	f := NewFrameRenderer(nil, "world-canvas", 20)
	if f.Ready() {
		t.Error("expected frame renderer without a backend not to be ready")
	}
	f.RenderFrame(nil, []*entity.Entity{entity.New("a", "A", 0, 0, entity.DefaultColor)}, nil, camera.New())
	if f.Frames() != 0 {
		t.Errorf("frames = %d, want 0", f.Frames())
	}
}

func TestRenderFrameWithoutSurface(t *testing.T) {
	r := &fakeRenderer{}
	f := NewFrameRenderer(r, "", 20)
	if f.Ready() {
		t.Error("expected frame renderer without a surface not to be ready")
	}
	f.RenderFrame(r.screen(800, 600), []*entity.Entity{entity.New("a", "A", 0, 0, entity.DefaultColor)}, nil, camera.New())
	if len(r.calls) != 0 || f.Frames() != 0 {
		t.Errorf("ops = %v, frames = %d, want nothing drawn", r.ops(), f.Frames())
	}
}
