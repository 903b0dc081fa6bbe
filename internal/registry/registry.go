// Package registry lists the playable modes. Each rules preset registers
// itself from an init function, so the front-ends never name modes
// directly.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Game is a mode the front-end drives one fixed step at a time. It never
// sees Bubble Tea: the front-end owns keys, timing and the terminal.
type Game interface {
	ID() string
	Title() string

	// Reset starts a new game. It is called again to restart after a top out.
	Reset(cfg core.RuntimeConfig)

	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which the caller has cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// Describer is a Game with a one-line description for menus.
type Describer interface {
	Description() string
}

// GameInfo is what menus show for a mode.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory builds a fresh game of one mode.
type Factory func() Game

type entry struct {
	info GameInfo
	make Factory
}

var (
	mu      sync.RWMutex
	entries []entry // registration order
)

func find(id string) int {
	return slices.IndexFunc(entries, func(e entry) bool { return e.info.ID == id })
}

// Register adds a mode. It panics on a duplicate ID.
func Register(id string, f Factory) {
	g := f()
	info := GameInfo{ID: id, Title: g.Title()}
	if d, ok := g.(Describer); ok {
		info.Description = d.Description()
	}

	mu.Lock()
	defer mu.Unlock()
	if find(id) >= 0 {
		panic(fmt.Sprintf("registry: mode %q registered twice", id))
	}
	entries = append(entries, entry{info: info, make: f})
}

// List returns every mode in registration order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]GameInfo, len(entries))
	for i, e := range entries {
		out[i] = e.info
	}
	return out
}

// Create builds a new game of the given mode.
func Create(id string) (Game, error) {
	mu.RLock()
	i := find(id)
	var f Factory
	if i >= 0 {
		f = entries[i].make
	}
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}
	return f(), nil
}

// Exists reports whether a mode is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return find(id) >= 0
}
