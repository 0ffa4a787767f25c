// Package presetio reads and writes presets as YAML documents.
package presetio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pomocoin/internal/model"
)

const documentVersion = 1

// Document is the on-disk form of a preset export.
type Document struct {
	Version int            `yaml:"version"`
	Presets []model.Preset `yaml:"presets"`
}

// Lister lists stored presets.
type Lister interface {
	ListPresets(ctx context.Context) ([]model.Preset, error)
}

// Inserter stores a new preset.
type Inserter interface {
	InsertPreset(ctx context.Context, p model.Preset) (int64, error)
}

// Encode writes presets as a YAML document.
func Encode(w io.Writer, presets []model.Preset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Version: documentVersion, Presets: presets}); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	return enc.Close()
}

// Decode reads a YAML document and validates every preset in it. Unknown fields are rejected.
func Decode(r io.Reader) ([]model.Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("unsupported preset document version %d", doc.Version)
	}
	for i, p := range doc.Presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %d (%q): %w", i+1, p.Name, err)
		}
	}
	return doc.Presets, nil
}

// Export writes every stored preset to w.
func Export(ctx context.Context, src Lister, w io.Writer) (int, error) {
	presets, err := src.ListPresets(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list presets: %w", err)
	}
	if presets == nil {
		presets = []model.Preset{}
	}
	return len(presets), Encode(w, presets)
}

// Import decodes r and stores each preset as a new row. Nothing is stored if decoding fails.
func Import(ctx context.Context, dst Inserter, r io.Reader) (int, error) {
	presets, err := Decode(r)
	if err != nil {
		return 0, err
	}
	for i, p := range presets {
		p.ID = 0
		if _, err := dst.InsertPreset(ctx, p); err != nil {
			return i, fmt.Errorf("failed to import preset %q: %w", p.Name, err)
		}
	}
	return len(presets), nil
}
