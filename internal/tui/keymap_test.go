package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()
	bindings := map[string]key.Binding{
		"Quit": km.Quit, "Pause": km.Pause, "Reset": km.Reset,
		"Up": km.Up, "Down": km.Down, "Matrix": km.Matrix,
	}
	for name, b := range bindings {
		if !b.Enabled() || len(b.Keys()) == 0 {
			t.Errorf("%s binding has no keys", name)
		}
	}
}

func TestDefaultKeyMap_QuitKeys(t *testing.T) {
	keys := DefaultKeyMap().Quit.Keys()
	for _, want := range []string{"q", "ctrl+c"} {
		if !slices.Contains(keys, want) {
			t.Errorf("Quit binding missing %q: %v", want, keys)
		}
	}
}
