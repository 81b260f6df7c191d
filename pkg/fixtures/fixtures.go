// Package fixtures decodes YAML fixture files into entity slices used to
// seed collections.
//
// A fixture file is a YAML sequence of entities. Fields are matched by their
// `yaml` tags, falling back to the lower-cased Go field name:
//
//	- id: u1
//	  name: alice
//	- id: u2
//	  name: bob
package fixtures

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a YAML sequence of T from r. An empty document yields an
// empty slice.
func Decode[T any](r io.Reader) ([]T, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var items []T
	if err := dec.Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// DecodeBytes decodes a YAML sequence of T from data
func DecodeBytes[T any](data []byte) ([]T, error) {
	return Decode[T](bytes.NewReader(data))
}

// Load reads a YAML fixture file
func Load[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	items, err := Decode[T](f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
