package maploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"chosenoffset.com/crewmate/internal/core/geom"
	"chosenoffset.com/crewmate/internal/world/mapstore"
)

var (
	// ErrNoMap means the store had no usable record; the session runs in void mode.
	ErrNoMap = errors.New("maploader: no map available")
	// ErrAssetDecode means the selected record's bitmap could not be loaded.
	ErrAssetDecode = errors.New("maploader: map asset failed to load")
)

// Map represents a loaded map with its decoded bitmap
type Map struct {
	Record mapstore.Record
	Image  image.Image
	Bounds geom.Bounds
}

// Spawn returns the first spawn point, or fallback when the map has none.
func (m *Map) Spawn(fallback geom.Point) geom.Point {
	if len(m.Record.Spawns) == 0 {
		return fallback
	}
	s := m.Record.Spawns[0]
	return geom.Point{X: s.X, Y: s.Y}
}

// Loader resolves the active map record and its bitmap.
type Loader struct {
	store  mapstore.Store
	assets mapstore.AssetReader
}

// New creates a loader reading records from store and bitmaps from assets.
func New(store mapstore.Store, assets mapstore.AssetReader) *Loader {
	return &Loader{store: store, assets: assets}
}

// SelectActive picks the most recently modified record. Ties go to the
// record that comes later in the sequence.
func SelectActive(records []mapstore.Record) (mapstore.Record, bool) {
	if len(records) == 0 {
		return mapstore.Record{}, false
	}
	best := 0
	for i := 1; i < len(records); i++ {
		if records[i].LastModified >= records[best].LastModified {
			best = i
		}
	}
	return records[best], true
}

// LoadActiveMap queries the store, selects the active record and decodes its
// bitmap. A failing or empty store yields ErrNoMap; a bitmap that cannot be
// read or decoded yields ErrAssetDecode.
func (l *Loader) LoadActiveMap(ctx context.Context) (*Map, error) {
	if l.store == nil {
		return nil, fmt.Errorf("%w: no store configured", ErrNoMap)
	}

	records, err := l.store.QueryAllMaps(ctx)
	if err != nil {
		log.Printf("Warning: Failed to query maps: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrNoMap, err)
	}

	rec, ok := SelectActive(records)
	if !ok {
		return nil, ErrNoMap
	}
	log.Printf("Selected map: %s (%s)", rec.Name, rec.ID)

	img, err := l.decode(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: map %s: %v", ErrAssetDecode, rec.ID, err)
	}

	bounds := geom.Bounds{Width: float64(rec.Width), Height: float64(rec.Height)}
	if !bounds.Known() {
		bounds = geom.Bounds{Width: float64(img.Bounds().Dx()), Height: float64(img.Bounds().Dy())}
	}

	return &Map{
		Record: rec,
		Image:  img,
		Bounds: bounds,
	}, nil
}

func (l *Loader) decode(ctx context.Context, rec mapstore.Record) (image.Image, error) {
	if l.assets == nil {
		return nil, errors.New("no asset reader configured")
	}
	if rec.ImageURL == "" {
		return nil, errors.New("record has no image")
	}
	data, err := l.assets.ReadAsset(ctx, rec.ImageURL)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoded %s image is empty", format)
	}
	return img, nil
}

// Start runs LoadActiveMap on its own goroutine and returns the slot its
// result is published to. The call never blocks.
func (l *Loader) Start(ctx context.Context) *Pending {
	p := NewPending()
	go func() {
		m, err := l.LoadActiveMap(ctx)
		p.Resolve(m, err)
	}()
	return p
}
