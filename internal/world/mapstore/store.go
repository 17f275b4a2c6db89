// Package mapstore persists map records as JSON files and merges them with
// the built-in default maps.
package mapstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("mapstore: map not found")
	// ErrUnavailable is returned when the store directory cannot be read.
	ErrUnavailable = errors.New("mapstore: store unavailable")
)

// Store is the read side used by the game.
type Store interface {
	// QueryAllMaps returns every record, built-in defaults first.
	QueryAllMaps(ctx context.Context) ([]Record, error)
}

// AssetReader resolves a record's bitmap reference to raw bytes.
type AssetReader interface {
	ReadAsset(ctx context.Context, ref string) ([]byte, error)
}

// FileStore keeps one JSON file per record in a directory.
type FileStore struct {
	dir      string
	defaults []Record
	now      func() time.Time
}

// NewFileStore creates a store rooted at dir merging in the given defaults.
func NewFileStore(dir string, defaults []Record) *FileStore {
	return &FileStore{
		dir:      dir,
		defaults: defaults,
		now:      time.Now,
	}
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// QueryAllMaps returns the defaults followed by the stored records ordered by
// file name. A stored record with the ID of a default replaces it in place.
// A missing directory yields just the defaults.
func (s *FileStore) QueryAllMaps(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	custom, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Record, 0, len(s.defaults)+len(custom))
	index := make(map[string]int, len(s.defaults)+len(custom))
	for _, rec := range s.defaults {
		index[rec.ID] = len(all)
		all = append(all, rec)
	}
	for _, rec := range custom {
		if i, ok := index[rec.ID]; ok {
			all[i] = rec
			continue
		}
		index[rec.ID] = len(all)
		all = append(all, rec)
	}

	log.Printf("Loaded %d custom maps", len(custom))
	return all, nil
}

// Get returns the record with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	all, err := s.QueryAllMaps(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range all {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SaveMap validates and persists rec, assigning an ID when it has none and
// stamping LastModified. It returns the record ID.
func (s *FileStore) SaveMap(ctx context.Context, rec *Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec.Name == "" {
		rec.Name = UntitledName
	}
	for i := range rec.Tasks {
		if rec.Tasks[i].Kind == "" {
			rec.Tasks[i].Kind = DefaultTaskKind
		}
	}
	if err := Validate(rec); err != nil {
		return "", fmt.Errorf("invalid map %q: %w", rec.Name, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.IsDefault = false
	rec.LastModified = s.now().UnixMilli()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode map %s: %w", rec.ID, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create store directory %s: %w", s.dir, err)
	}

	path := s.recordPath(rec.ID)
	tmp, err := os.CreateTemp(s.dir, ".map-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to save map %s: %w", rec.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save map %s: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save map %s: %w", rec.ID, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save map %s: %w", rec.ID, err)
	}

	log.Printf("Map saved: %s (%s)", rec.Name, rec.ID)
	return rec.ID, nil
}

// ReadAsset resolves a data URL inline or reads a file relative to the
// store directory.
func (s *FileStore) ReadAsset(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref == "" {
		return nil, errors.New("empty asset reference")
	}
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, filepath.FromSlash(ref))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", ref, err)
	}
	return data, nil
}

func (s *FileStore) readAll(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var records []Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Skip directories and anything that isn't a record
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: Failed to read map file %s: %v", path, err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Printf("Warning: Failed to parse map file %s: %v", path, err)
			continue
		}
		if rec.ID == "" {
			rec.ID = strings.TrimSuffix(name, filepath.Ext(name))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, url.PathEscape(id)+".json")
}

// decodeDataURL extracts the payload of a "data:[<mediatype>][;base64],<data>" URL.
func decodeDataURL(ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URL: missing ','")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URL payload: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URL payload: %w", err)
	}
	return []byte(data), nil
}
