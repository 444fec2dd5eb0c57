package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	metaFile = "metadata.json"
	artFile  = "art.txt"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Record describes one saved conversion.
type Record struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Columns   int       `json:"columns"`
	Lines     int       `json:"lines"`
	Bytes     int       `json:"bytes"`
}

// Save writes art and its metadata under a new run directory.
func (s *Store) Save(source, mimeType, art string) (string, error) {
	now := time.Now()
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." {
		base = "art"
	}
	id := fmt.Sprintf("%s_%d", base, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	cols := 0
	for _, l := range lines {
		if len(l) > cols {
			cols = len(l)
		}
	}

	meta := Record{
		ID:        id,
		Source:    source,
		Type:      mimeType,
		Timestamp: now,
		Columns:   cols,
		Lines:     len(lines),
		Bytes:     len(art),
	}

	f, err := os.Create(filepath.Join(dir, metaFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, artFile), []byte(art), 0644); err != nil {
		return "", err
	}
	return id, nil
}

// List returns saved records, newest first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		records = append(records, *meta)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metaFile))
	if err != nil {
		return nil, err
	}

	var meta Record
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadArt(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, artFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
