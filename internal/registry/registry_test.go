package registry

import (
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return "Stub " + g.id }
func (g *stubGame) Description() string                  { return "test mode" }
func (g *stubGame) Reset(core.RuntimeConfig)             {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub-b", func() Game { return &stubGame{id: "zz-stub-b"} })
	Register("zz-stub-a", func() Game { return &stubGame{id: "zz-stub-a"} })

	if !Exists("zz-stub-a") {
		t.Fatal("expected zz-stub-a to be registered")
	}

	g, err := Create("zz-stub-b")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz-stub-b" {
		t.Errorf("ID = %q, want zz-stub-b", g.ID())
	}

	// Registration order is kept.
	var posA, posB = -1, -1
	for i, info := range List() {
		switch info.ID {
		case "zz-stub-a":
			posA = i
			if info.Description != "test mode" {
				t.Errorf("Description = %q", info.Description)
			}
		case "zz-stub-b":
			posB = i
			if info.Title != "Stub zz-stub-b" {
				t.Errorf("Title = %q", info.Title)
			}
		}
	}
	if posA < 0 || posB < 0 || posB > posA {
		t.Errorf("unexpected list order: a=%d b=%d", posA, posB)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-mode"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz-dup", func() Game { return &stubGame{id: "zz-dup"} })
}
