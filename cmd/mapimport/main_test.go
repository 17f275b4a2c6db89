package main

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/crewmate/internal/placeholders"
	"chosenoffset.com/crewmate/internal/world/mapstore"
)

func TestParsePoint(t *testing.T) {
	x, y, kind, err := parsePoint("120, 40.5,reactor")
	if err != nil {
		t.Fatalf("parsePoint failed: %v", err)
	}
	if x != 120 || y != 40.5 || kind != "reactor" {
		t.Errorf("got (%v, %v, %q)", x, y, kind)
	}

	for _, bad := range []string{"", "1", "1,2,3,4", "a,2", "1,b"} {
		if _, _, _, err := parsePoint(bad); err == nil {
			t.Errorf("parsePoint(%q) succeeded, want error", bad)
		}
	}
}

func writeImage(t *testing.T, dir string, w, h int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "deck.png")
	if err := placeholders.SavePNG(placeholders.CreateGrid(w, h, placeholders.CellSize), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunImportsEmbeddedMap(t *testing.T) {
	dir := t.TempDir()
	mapsDir := filepath.Join(dir, "maps")
	imgPath := writeImage(t, dir, 640, 480)
	preview := filepath.Join(dir, "preview.png")

	err := run(mapsDir, imgPath, "Deck", "", true, preview,
		pointList{"100,100"}, pointList{"200,150", "300,300,wires"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	records, err := mapstore.NewFileStore(mapsDir, nil).QueryAllMaps(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
	rec := records[0]
	if rec.Name != "Deck" || rec.Width != 640 || rec.Height != 480 {
		t.Errorf("record = %+v", rec)
	}
	if !strings.HasPrefix(rec.ImageURL, "data:image/png;base64,") {
		t.Errorf("image url = %.40q, want a data URL", rec.ImageURL)
	}
	if len(rec.Tasks) != 2 || rec.Tasks[0].Kind != mapstore.DefaultTaskKind || rec.Tasks[1].Kind != "wires" {
		t.Errorf("tasks = %+v", rec.Tasks)
	}
	if _, err := os.Stat(preview); err != nil {
		t.Errorf("preview not written: %v", err)
	}
}

func TestRunCopiesAssetAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mapsDir := filepath.Join(dir, "maps")
	imgPath := writeImage(t, dir, 200, 200)

	if err := run(mapsDir, imgPath, "Closet", "", false, "", nil, nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	store := mapstore.NewFileStore(mapsDir, nil)
	records, err := store.QueryAllMaps(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
	rec := records[0]
	if want := "assets/" + rec.ID + "-deck.png"; rec.ImageURL != want {
		t.Errorf("image url = %q, want %s", rec.ImageURL, want)
	}
	if _, err := store.ReadAsset(context.Background(), rec.ImageURL); err != nil {
		t.Errorf("copied asset unreadable: %v", err)
	}

	// Updating keeps the ID and bitmap but replaces the spawns.
	if err := run(mapsDir, "", "Closet B", rec.ID, false, "", pointList{"50,50"}, nil); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := store.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Closet B" || len(updated.Spawns) != 1 || updated.ImageURL != rec.ImageURL {
		t.Errorf("updated = %+v", updated)
	}
}

func TestRunRequiresImageForNewMap(t *testing.T) {
	if err := run(t.TempDir(), "", "Empty", "", true, "", nil, nil); err == nil {
		t.Error("expected error without an image")
	}
}

func TestRunUpdatesDefaultMap(t *testing.T) {
	mapsDir := filepath.Join(t.TempDir(), "maps")

	err := run(mapsDir, "", "Headquarters", mapstore.DefaultMapID, true, "", pointList{"300,300"}, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	store := mapstore.NewFileStore(mapsDir, mapstore.DefaultMaps())
	rec, err := store.Get(context.Background(), mapstore.DefaultMapID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != "Headquarters" || rec.IsDefault {
		t.Errorf("record = %+v, want a renamed custom copy", rec)
	}
	if len(rec.Spawns) != 1 || rec.Spawns[0] != (mapstore.SpawnPoint{X: 300, Y: 300}) {
		t.Errorf("spawns = %+v", rec.Spawns)
	}
	if rec.ImageURL == "" {
		t.Error("default bitmap was dropped")
	}
}

func TestRunKeepsSameNamedAssetsApart(t *testing.T) {
	dir := t.TempDir()
	mapsDir := filepath.Join(dir, "maps")
	small := writeImage(t, filepath.Join(dir, "a"), 100, 100)
	large := writeImage(t, filepath.Join(dir, "b"), 300, 200)

	if err := run(mapsDir, small, "Small", "", false, "", nil, nil); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if err := run(mapsDir, large, "Large", "", false, "", nil, nil); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	store := mapstore.NewFileStore(mapsDir, nil)
	records, err := store.QueryAllMaps(context.Background())
	if err != nil || len(records) != 2 {
		t.Fatalf("records = %v, err = %v", records, err)
	}
	if records[0].ImageURL == records[1].ImageURL {
		t.Fatalf("both maps share asset %q", records[0].ImageURL)
	}
	for _, rec := range records {
		data, err := store.ReadAsset(context.Background(), rec.ImageURL)
		if err != nil {
			t.Fatalf("asset for %s unreadable: %v", rec.Name, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != rec.Width || b.Dy() != rec.Height {
			t.Errorf("%s asset is %dx%d, want %dx%d", rec.Name, b.Dx(), b.Dy(), rec.Width, rec.Height)
		}
	}
}
