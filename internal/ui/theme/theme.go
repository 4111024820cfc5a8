// Package theme provides the semantic color palettes used for terminal output.
package theme

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the palette used when none is configured.
const DefaultName = "tokyonight"

// Palette defines the semantic colors of a theme.
// Every color adapts to light and dark terminals.
type Palette struct {
	Primary   lipgloss.AdaptiveColor // headers, version badges
	Secondary lipgloss.AdaptiveColor // field labels
	Accent    lipgloss.AdaptiveColor // highlighted versions
	Error     lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor // pre-release markers
	Success   lipgloss.AdaptiveColor // update available
	Text      lipgloss.AdaptiveColor
	TextMuted lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
}

// Registry maps names to palettes. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	palettes map[string]Palette
}

// NewRegistry returns a registry holding the built-in palettes.
func NewRegistry() *Registry {
	r := &Registry{palettes: make(map[string]Palette, len(builtin))}
	for name, p := range builtin {
		r.palettes[name] = p
	}
	return r
}

// Register adds or replaces a palette.
func (r *Registry) Register(name string, p Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.palettes[name] = p
}

// Lookup returns the palette called name.
func (r *Registry) Lookup(name string) (Palette, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.palettes[name]
	return p, ok
}

// Resolve returns the named palette, falling back to the default one.
// The returned name is the palette actually used.
func (r *Registry) Resolve(name string) (string, Palette) {
	if p, ok := r.Lookup(name); ok {
		return name, p
	}
	p, _ := r.Lookup(DefaultName)
	return DefaultName, p
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.palettes))
	for name := range r.palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
