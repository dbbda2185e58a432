// Package store persists Slate values.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/bbslate/pkg/slate"
)

// ValueStore defines an interface for storing Slate values
type ValueStore interface {
	// StoreValue persists a value
	StoreValue(ctx context.Context, value *slate.Value) error

	// LoadValue loads a value from storage
	LoadValue(ctx context.Context) (*slate.Value, error)
}

// JSONValueStore implements ValueStore using a JSON file
type JSONValueStore struct {
	filePath string
}

// NewJSONValueStore creates a new JSON value store
func NewJSONValueStore(filePath string) *JSONValueStore {
	return &JSONValueStore{
		filePath: filePath,
	}
}

// Path returns the file the store reads and writes
func (s *JSONValueStore) Path() string {
	return s.filePath
}

// StoreValue stores the value as indented JSON
func (s *JSONValueStore) StoreValue(ctx context.Context, value *slate.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value == nil {
		return errors.New("nil value")
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode value")
	}

	return os.WriteFile(s.filePath, append(data, '\n'), 0644)
}

// LoadValue loads a value from the JSON file
func (s *JSONValueStore) LoadValue(ctx context.Context) (*slate.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}

	var value slate.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", s.filePath)
	}

	return &value, nil
}
