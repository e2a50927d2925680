// Package render assembles SVG documents from a template and hands them to
// a Rasterizer for the PNG conversion. Per the source material, "not raster
// code": this package owns template loading and token substitution only,
// and delegates every pixel operation to whatever Rasterizer is wired in.
package render

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/n0sat/satbot/internal/errors"
)

// Rasterizer turns an assembled SVG document into PNG bytes. The only
// implementation in this module is the headless-browser one in
// internal/browser; tests can substitute a fake.
type Rasterizer interface {
	RasterizeSVG(ctx context.Context, svg string) ([]byte, error)
}

// Template holds a loaded SVG template's raw text for token substitution.
// A missing template file is a fatal configuration error (§9's open
// question resolution) — callers must not silently fall back to a blank
// image.
type Template struct {
	mu   sync.RWMutex
	path string
	text string
}

// LoadTemplate reads the SVG template at path. Returns an error if the file
// does not exist — this is surfaced by callers as a fatal startup error.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "render template missing: %s", path)
	}
	return &Template{path: path, text: string(data)}, nil
}

// Reload re-reads the template from disk, for operators who edit it live.
func (t *Template) Reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return errors.Wrapf(err, "render template missing: %s", t.path)
	}
	t.mu.Lock()
	t.text = string(data)
	t.mu.Unlock()
	return nil
}

// Render substitutes {{token}}-style placeholders in the template with the
// given values and returns the assembled SVG document. Keys are applied in
// sorted order so substitution is deterministic even if one value happens
// to contain another token's literal "{{...}}" text.
func (t *Template) Render(tokens map[string]string) string {
	t.mu.RLock()
	svg := t.text
	t.mu.RUnlock()

	keys := make([]string, 0, len(tokens))
	for key := range tokens {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		svg = strings.ReplaceAll(svg, "{{"+key+"}}", tokens[key])
	}
	return svg
}

// Engine ties a Template to a Rasterizer, producing PNG bytes from tokens.
// Used by every feed pipeline and the satellite query path so each one
// doesn't need to know how rasterization actually happens.
type Engine struct {
	template   *Template
	rasterizer Rasterizer
}

// NewEngine builds a render engine from a loaded template and rasterizer.
// RenderPNG applies no timeout of its own; it runs under whatever deadline
// the ctx passed to it carries.
func NewEngine(template *Template, rasterizer Rasterizer) *Engine {
	return &Engine{template: template, rasterizer: rasterizer}
}

// RenderPNG assembles the SVG from tokens and rasterizes it.
func (e *Engine) RenderPNG(ctx context.Context, tokens map[string]string) ([]byte, error) {
	svg := e.template.Render(tokens)
	png, err := e.rasterizer.RasterizeSVG(ctx, svg)
	if err != nil {
		return nil, errors.Wrap(err, "rasterization failed")
	}
	return png, nil
}
