// Package colors assigns display colors to employees.
package colors

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// maxDark is the largest color value handed out. Everything at or below it is
// dark enough for white text on top.
const maxDark = 0x333333

// Palette caches one color per employee name for the lifetime of a session.
// Colors are random: two employees may receive the same color and a name gets
// a new color after Invalidate.
type Palette struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	colors map[string]string
}

// NewPalette returns a palette seeded from the clock.
func NewPalette() *Palette {
	return NewPaletteWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewPaletteWithSource returns a palette drawing from src.
func NewPaletteWithSource(src rand.Source) *Palette {
	return &Palette{
		rnd:    rand.New(src),
		colors: make(map[string]string),
	}
}

// ColorFor returns the cached color for name, generating one on first use.
func (p *Palette) ColorFor(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.colors[name]; ok {
		return c
	}

	c := fmt.Sprintf("#%06x", p.rnd.Intn(maxDark+1))
	p.colors[name] = c
	return c
}

// Invalidate drops every cached color.
func (p *Palette) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.colors = make(map[string]string)
}

// Len reports how many names currently have a color.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.colors)
}
