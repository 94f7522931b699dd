// Package markdown renders model-generated markdown for the terminal.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into styled terminal text. Renderers are cached
// per wrap width.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// New creates a Renderer using a glamour standard style ("dark", "light",
// "notty", ...). An empty style means "dark".
func New(style string) *Renderer {
	switch style {
	case "", "default":
		style = "dark"
	}
	return &Renderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// Render formats md wrapped at width. If rendering fails the input is
// returned unchanged so the text is never lost.
func (r *Renderer) Render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	tr, err := r.renderer(width)
	if err != nil {
		return md
	}
	out, err := tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}
