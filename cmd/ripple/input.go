package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/ripple/internal/errors"
)

// item is one element of a keyed sequence read from a file. Scalars are
// their own key; mappings must carry a "key" field.
type item struct {
	Key    string
	Fields map[string]any
}

func keyOf(it item) string { return it.Key }

// sameContent reports whether patching a into b would change anything.
func sameContent(a, b item) bool {
	return reflect.DeepEqual(a.Fields, b.Fields)
}

// readItems decodes a sequence file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func readItems(path string) ([]item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("X001").WithDetail(path).Wrap(err)
	}

	var raw []any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.New("X002").
			WithDetailf("%s: %v", path, err).
			Wrap(err)
	}

	items := make([]item, 0, len(raw))
	for i, v := range raw {
		it, err := toItem(v)
		if err != nil {
			return nil, errors.New("X002").WithDetailf("%s: element %d: %v", path, i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func toItem(v any) (item, error) {
	switch v := v.(type) {
	case map[string]any:
		k, ok := v["key"]
		if !ok || k == nil {
			return item{}, fmt.Errorf("missing \"key\" field")
		}
		if _, nested := k.(map[string]any); nested {
			return item{}, fmt.Errorf("\"key\" must be a scalar")
		}
		return item{Key: fmt.Sprint(k), Fields: v}, nil
	case []any, nil:
		return item{}, fmt.Errorf("expected a scalar or a mapping, got %T", v)
	default:
		return item{Key: fmt.Sprint(v)}, nil
	}
}

func itemKeys(items []item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys
}
