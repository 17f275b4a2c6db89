package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"chosenoffset.com/crewmate/internal/placeholders"
	"chosenoffset.com/crewmate/internal/world/mapstore"
)

// pointList collects repeated "x,y[,kind]" flags.
type pointList []string

func (p *pointList) String() string     { return strings.Join(*p, " ") }
func (p *pointList) Set(v string) error { *p = append(*p, v); return nil }

func parsePoint(s string) (x, y float64, kind string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, "", fmt.Errorf("point %q: want x,y or x,y,kind", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, "", fmt.Errorf("point %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, "", fmt.Errorf("point %q: %w", s, err)
	}
	if len(parts) == 3 {
		kind = strings.TrimSpace(parts[2])
	}
	return x, y, kind, nil
}

func main() {
	mapsDir := flag.String("maps", "data/maps", "Map store directory")
	imagePath := flag.String("image", "", "Map bitmap to import (png, jpeg, gif, bmp, webp)")
	name := flag.String("name", "", "Map name")
	id := flag.String("id", "", "Existing map ID to update")
	embed := flag.Bool("embed", true, "Embed the bitmap as a data URL instead of copying it next to the record")
	preview := flag.String("preview", "", "Write a PNG preview with spawn and task markers")
	var spawns, tasks pointList
	flag.Var(&spawns, "spawn", "Spawn point x,y (repeatable)")
	flag.Var(&tasks, "task", "Task marker x,y[,kind] (repeatable)")
	flag.Parse()

	fmt.Println("Crewmate Map Importer")
	fmt.Println("=====================")
	fmt.Println()

	if err := run(*mapsDir, *imagePath, *name, *id, *embed, *preview, spawns, tasks); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(mapsDir, imagePath, name, id string, embed bool, preview string, spawns, tasks pointList) error {
	ctx := context.Background()
	store := mapstore.NewFileStore(mapsDir, mapstore.DefaultMaps())

	rec := mapstore.NewRecord()
	if id != "" {
		existing, err := store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load map %s: %w", id, err)
		}
		rec = &existing
	}
	if name != "" {
		rec.Name = name
	}

	if imagePath == "" && rec.ImageURL == "" {
		return errors.New("-image is required for a new map")
	}

	var img image.Image
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		var format string
		img, format, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to decode image %s: %w", imagePath, err)
		}
		b := img.Bounds()
		rec.Width, rec.Height = b.Dx(), b.Dy()
		fmt.Printf("Image: %s (%s, %dx%d)\n", imagePath, format, rec.Width, rec.Height)

		if embed {
			if rec.ImageURL, err = placeholders.DataURL(img); err != nil {
				return err
			}
		} else {
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			if rec.ImageURL, err = copyAsset(mapsDir, rec.ID, imagePath, data); err != nil {
				return err
			}
		}
	}

	if len(spawns) > 0 {
		rec.Spawns = rec.Spawns[:0]
		for _, s := range spawns {
			x, y, _, err := parsePoint(s)
			if err != nil {
				return err
			}
			rec.Spawns = append(rec.Spawns, mapstore.SpawnPoint{X: x, Y: y})
		}
	}
	if len(tasks) > 0 {
		rec.Tasks = rec.Tasks[:0]
		for _, s := range tasks {
			x, y, kind, err := parsePoint(s)
			if err != nil {
				return err
			}
			rec.Tasks = append(rec.Tasks, mapstore.TaskMarker{X: x, Y: y, Kind: kind})
		}
	}

	savedID, err := store.SaveMap(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %q as %s (%d spawns, %d tasks)\n", rec.Name, savedID, len(rec.Spawns), len(rec.Tasks))

	if preview != "" {
		if img == nil {
			data, err := store.ReadAsset(ctx, rec.ImageURL)
			if err != nil {
				return err
			}
			if img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
				return fmt.Errorf("failed to decode stored image: %w", err)
			}
		}
		if err := writePreview(img, rec, preview); err != nil {
			return err
		}
		fmt.Printf("Preview written to %s\n", preview)
	}
	return nil
}

// copyAsset places the bitmap under the store's assets directory, prefixed
// with the owning record's ID, and returns the reference relative to the store.
func copyAsset(mapsDir, id, imagePath string, data []byte) (string, error) {
	name := url.PathEscape(id) + "-" + filepath.Base(imagePath)
	rel := filepath.ToSlash(filepath.Join("assets", name))
	dst := filepath.Join(mapsDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to copy asset: %w", err)
	}
	return rel, nil
}

func writePreview(src image.Image, rec *mapstore.Record, path string) error {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	const markerSize = 12
	for _, s := range rec.Spawns {
		placeholders.MarkPoint(img, int(s.X), int(s.Y), markerSize, placeholders.ColorPalette.Spawn)
	}
	for _, t := range rec.Tasks {
		placeholders.MarkPoint(img, int(t.X), int(t.Y), markerSize, placeholders.ColorPalette.TaskMarker)
	}
	return placeholders.SavePNG(img, path)
}
