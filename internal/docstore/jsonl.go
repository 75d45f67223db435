package docstore

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/amonks/lists/internal/ids"
)

const maxJSONLineBytes = 1024 * 1024

// JSONLStore keeps each collection in a JSONL file below a directory.
// Every write rewrites the collection file atomically while holding an
// exclusive lock, so several processes may share a directory.
type JSONLStore struct {
	dir string
}

type jsonlRecord struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// OpenJSONL opens a JSONL store rooted at dir, creating it when missing.
func OpenJSONL(dir string) (*JSONLStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("jsonl store directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &JSONLStore{dir: dir}, nil
}

// Get implements Store.
func (s *JSONLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	records, err := s.read(ctx, collection)
	if err != nil {
		return Document{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return Document{ID: record.ID, Data: record.Data}, nil
		}
	}
	return Document{}, ErrNotFound
}

// Query implements Store.
func (s *JSONLStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	records, err := s.read(ctx, collection)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, record := range records {
		ok, err := Matches(record.Data, filters...)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, Document{ID: record.ID, Data: record.Data})
		}
	}
	return docs, nil
}

// Create implements Store.
func (s *JSONLStore) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := ids.New()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Set implements Store.
func (s *JSONLStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	normalized, err := normalize(data)
	if err != nil {
		return err
	}
	return s.modify(ctx, collection, func(records []jsonlRecord) ([]jsonlRecord, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Data = normalized
				return records, nil
			}
		}
		return append(records, jsonlRecord{ID: id, Data: normalized}), nil
	})
}

// Update implements Store.
func (s *JSONLStore) Update(ctx context.Context, collection, id string, updates ...Update) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := validateUpdates(updates); err != nil {
		return err
	}
	return s.modify(ctx, collection, func(records []jsonlRecord) ([]jsonlRecord, error) {
		for i := range records {
			if records[i].ID != id {
				continue
			}
			updated, err := Apply(records[i].Data, updates...)
			if err != nil {
				return nil, err
			}
			normalized, err := normalize(updated)
			if err != nil {
				return nil, err
			}
			records[i].Data = normalized
			return records, nil
		}
		return nil, ErrNotFound
	})
}

// Delete implements Store.
func (s *JSONLStore) Delete(ctx context.Context, collection, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	return s.modify(ctx, collection, func(records []jsonlRecord) ([]jsonlRecord, error) {
		kept := records[:0]
		for _, record := range records {
			if record.ID != id {
				kept = append(kept, record)
			}
		}
		return kept, nil
	})
}

// Close implements Store.
func (s *JSONLStore) Close() error {
	return nil
}

func (s *JSONLStore) collectionFile(collection string) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(collection)+".jsonl"), nil
}

func (s *JSONLStore) read(ctx context.Context, collection string) ([]jsonlRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.collectionFile(collection)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	var records []jsonlRecord
	err = withFileLock(path, func() error {
		var err error
		records, err = readJSONL[jsonlRecord](path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return records, nil
}

func (s *JSONLStore) modify(ctx context.Context, collection string, fn func([]jsonlRecord) ([]jsonlRecord, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.collectionFile(collection)
	if err != nil {
		return err
	}
	return withFileLock(path, func() error {
		records, err := readJSONL[jsonlRecord](path)
		if err != nil {
			return fmt.Errorf("read %s: %w", collection, err)
		}
		records, err = fn(records)
		if err != nil {
			return err
		}
		if err := writeJSONL(path, records); err != nil {
			return fmt.Errorf("write %s: %w", collection, err)
		}
		return nil
	})
}

// withFileLock executes fn while holding an exclusive lock on a sibling
// lock file of path. The lock file is separate from the data file because
// writes replace the data file by renaming.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.OpenFile(path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open file for locking: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

func readJSONL[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return readJSONLFromReader[T](f)
}

func readJSONLFromReader[T any](reader io.Reader) ([]T, error) {
	var items []T
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parse line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return items, nil
}

// writeJSONL writes items to path, replacing any existing content.
func writeJSONL[T any](path string, items []T) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	encoder := json.NewEncoder(f)
	for i, item := range items {
		if err := encoder.Encode(item); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
