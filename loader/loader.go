// Package loader populates a depot.Registry from a bootstrap document,
// the boot phase in a box: read the file, define every entry with its
// lock mask, optionally freeze. Documents come from a config file
// (YAML, JSON, or TOML via viper) or from raw YAML bytes.
package loader

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/depot"
	"github.com/zjrosen/depot/internal/log"
)

// Entry defines a single registry key in a bootstrap document.
// Value and Array are mutually exclusive; with neither set the key is
// defined as Null.
type Entry struct {
	Key   string `mapstructure:"key" yaml:"key"`
	Value any    `mapstructure:"value" yaml:"value"`
	Array any    `mapstructure:"array" yaml:"array"`
	Lock  string `mapstructure:"lock" yaml:"lock"`
}

// Document is the root structure of a bootstrap file.
type Document struct {
	Registry []Entry `mapstructure:"registry" yaml:"registry"`
	Freeze   bool    `mapstructure:"freeze" yaml:"freeze"`
}

// FromFile reads a bootstrap file and returns the populated registry,
// frozen if the document says so.
func FromFile(path string) (*depot.Registry, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// FromYAML builds a registry from a raw YAML bootstrap document.
func FromYAML(data []byte) (*depot.Registry, error) {
	doc, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// ParseFile reads and decodes a bootstrap file without building a
// registry. The format is inferred from the file extension.
func ParseFile(path string) (Document, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Document{}, fmt.Errorf("read bootstrap file: %w", err)
	}
	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return Document{}, fmt.Errorf("parse bootstrap file: %w", err)
	}
	log.Debug(log.CatLoader, "Bootstrap file parsed", "path", path, "entries", len(doc.Registry), "freeze", doc.Freeze)
	return doc, nil
}

// ParseYAML decodes a raw YAML bootstrap document.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse bootstrap document: %w", err)
	}
	return doc, nil
}

// Build creates a fresh registry from doc and freezes it when the
// document asks for it.
func Build(doc Document) (*depot.Registry, error) {
	r := depot.New()
	if err := Populate(r, doc); err != nil {
		return nil, err
	}
	if doc.Freeze {
		r.Freeze()
		log.Debug(log.CatLoader, "Registry frozen after bootstrap", "keys", len(r.Keys()))
	}
	return r, nil
}

// Populate applies every entry of doc to r, for hosts that pre-seed a
// registry programmatically before loading a file. The document's
// Freeze flag is ignored here; Build honors it.
func Populate(r *depot.Registry, doc Document) error {
	for _, entry := range doc.Registry {
		if err := applyEntry(r, entry); err != nil {
			return err
		}
	}
	return nil
}

func applyEntry(r *depot.Registry, entry Entry) error {
	if entry.Key == "" {
		return fmt.Errorf("bootstrap entry is missing a key")
	}
	if entry.Value != nil && entry.Array != nil {
		return fmt.Errorf("entry %q: value and array are mutually exclusive", entry.Key)
	}
	mask, err := depot.ParseLock(entry.Lock)
	if err != nil {
		return fmt.Errorf("entry %q: %w", entry.Key, err)
	}
	if r.Has(entry.Key) {
		return fmt.Errorf("entry %q: %w", entry.Key, depot.ErrAlreadyDefined)
	}

	var value depot.Value
	switch {
	case entry.Array != nil:
		value, err = arrayValue(entry.Array)
	default:
		value, err = scalarValue(entry.Value)
	}
	if err != nil {
		return fmt.Errorf("entry %q: %w", entry.Key, err)
	}

	// Content is baked into the value before the mask is recorded, so
	// restrictive masks (read-only) cannot reject their own bootstrap.
	if err := r.Set(entry.Key, value, depot.WithLock(mask)); err != nil {
		return fmt.Errorf("entry %q: %w", entry.Key, err)
	}
	return nil
}

// scalarValue converts a decoded config scalar to a depot.Value.
func scalarValue(raw any) (depot.Value, error) {
	switch v := raw.(type) {
	case nil:
		return depot.Null(), nil
	case bool:
		return depot.Bool(v), nil
	case int:
		return depot.Int(int64(v)), nil
	case int32:
		return depot.Int(int64(v)), nil
	case int64:
		return depot.Int(v), nil
	case uint:
		return depot.Int(int64(v)), nil
	case uint64:
		return depot.Int(int64(v)), nil
	case float32:
		return depot.Float(float64(v)), nil
	case float64:
		return depot.Float(v), nil
	case string:
		return depot.String(v), nil
	default:
		return depot.Null(), fmt.Errorf("unsupported value type %T (arrays go under 'array', and arrays do not nest)", raw)
	}
}

// arrayValue converts a decoded map or sequence to an Array value.
// Elements must be scalar; arrays are one level deep.
func arrayValue(raw any) (depot.Value, error) {
	switch v := raw.(type) {
	case map[string]any:
		return mapValue(v)
	case map[any]any:
		// YAML sometimes produces map[any]any instead of map[string]any
		converted := make(map[string]any, len(v))
		for mk, mv := range v {
			strKey, ok := mk.(string)
			if !ok {
				return depot.Null(), fmt.Errorf("array subkeys must be strings, got %T", mk)
			}
			converted[strKey] = mv
		}
		return mapValue(converted)
	case []any:
		items := make([]depot.Value, 0, len(v))
		for i, item := range v {
			scalar, err := scalarValue(item)
			if err != nil {
				return depot.Null(), fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, scalar)
		}
		return depot.ListOf(items...), nil
	default:
		return depot.Null(), fmt.Errorf("array must be a mapping or a sequence, got %T", raw)
	}
}

func mapValue(m map[string]any) (depot.Value, error) {
	items := make(map[string]depot.Value, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		scalar, err := scalarValue(m[k])
		if err != nil {
			return depot.Null(), fmt.Errorf("subkey %q: %w", k, err)
		}
		items[k] = scalar
	}
	return depot.ArrayOf(items), nil
}
