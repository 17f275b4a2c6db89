package mapstore

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"chosenoffset.com/crewmate/internal/placeholders"
)

// SpawnPoint defines a player spawn location
type SpawnPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TaskMarker defines a task location and its kind
type TaskMarker struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"type"`
}

// Record is a persisted map: declared size, markers and a bitmap reference.
type Record struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsDefault bool         `json:"isDefault,omitempty"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Spawns    []SpawnPoint `json:"spawns"`
	Tasks     []TaskMarker `json:"tasks"`

	// ImageURL is either a data URL carrying the bitmap inline or a path
	// relative to the store directory.
	ImageURL string `json:"imageUrl,omitempty"`

	// LastModified is the save time in Unix milliseconds.
	LastModified int64 `json:"lastModified"`
}

const (
	// DefaultTaskKind is used for task markers saved without a kind
	DefaultTaskKind = "generic"
	// UntitledName is used for records saved without a name
	UntitledName = "Untitled Map"
)

// NewRecord returns an empty custom map template.
func NewRecord() *Record {
	return &Record{
		Name:   "New Custom Map",
		Width:  1000,
		Height: 1000,
		Spawns: []SpawnPoint{},
		Tasks:  []TaskMarker{},
	}
}

// Validate checks if the record is usable. A record without spawn points is
// accepted with a warning; the game falls back to a default position.
func Validate(r *Record) error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("invalid map dimensions: %dx%d", r.Width, r.Height)
	}

	var errs []error
	for i, s := range r.Spawns {
		if !inside(s.X, s.Y, r) {
			errs = append(errs, fmt.Errorf("spawn %d at (%.0f, %.0f) is outside the map", i, s.X, s.Y))
		}
	}
	for i, task := range r.Tasks {
		if !inside(task.X, task.Y, r) {
			errs = append(errs, fmt.Errorf("task %d at (%.0f, %.0f) is outside the map", i, task.X, task.Y))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if len(r.Spawns) == 0 {
		log.Printf("Warning: map %q has no spawn points", r.Name)
	}
	return nil
}

// inside reports whether (x, y) lies in the declared area. Records without a
// declared size take it from their bitmap, so any point is accepted.
func inside(x, y float64, r *Record) bool {
	if r.Width == 0 || r.Height == 0 {
		return true
	}
	return x >= 0 && y >= 0 && x <= float64(r.Width) && y <= float64(r.Height)
}

// DefaultMapID is the identifier of the built-in map.
const DefaultMapID = "default_map_01"

var defaultGrid = sync.OnceValue(func() string {
	url, err := placeholders.DataURL(placeholders.CreateGrid(800, 600, placeholders.CellSize))
	if err != nil {
		log.Printf("Warning: Failed to generate default map image: %v", err)
		return ""
	}
	return url
})

// DefaultMaps returns the built-in maps shipped with the game.
func DefaultMaps() []Record {
	return []Record{
		{
			ID:        DefaultMapID,
			Name:      "Headquarters (Default)",
			IsDefault: true,
			Width:     800,
			Height:    600,
			Spawns:    []SpawnPoint{{X: 400, Y: 300}},
			Tasks:     []TaskMarker{},
			ImageURL:  defaultGrid(),
		},
	}
}
