package protocols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TheApo/compile-sub002/internal/game"
)

const validProtocolYAML = `name: Gravity
cards:
  - value: 0
    middle:
      - kind: draw
        trigger: on_play
        params:
          count: 2
  - value: 1
  - value: 2
    top:
      - kind: value_modifier
        trigger: passive
        params:
          modifier:
            kind: add_per_condition
            value: 1
            condition: face_down_in_lane
  - value: 3
  - value: 4
    middle:
      - kind: flip
        trigger: on_play
        params:
          count: 1
        conditional:
          type: then
          effect:
            kind: draw
            trigger: on_play
            params:
              count: 1
  - value: 5
`

func writeProtocolFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileValid(t *testing.T) {
	path := writeProtocolFile(t, t.TempDir(), "gravity.yaml", validProtocolYAML)

	pf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if pf.Name != "Gravity" {
		t.Fatalf("name = %q, want Gravity", pf.Name)
	}

	sets := pf.AbilitySets()
	if sets[0] == nil || len(sets[0].Middle) != 1 || sets[0].Middle[0].Kind != game.KindDraw {
		t.Fatal("value 0 ability not arranged")
	}
	if sets[1] != nil || sets[3] != nil || sets[5] != nil {
		t.Fatal("vanilla cards must stay nil")
	}
	if sets[4] == nil || sets[4].Middle[0].Conditional == nil {
		t.Fatal("the chained effect was lost")
	}
}

func TestLoadFileMissingValue(t *testing.T) {
	content := strings.Replace(validProtocolYAML, "  - value: 5\n", "", 1)
	path := writeProtocolFile(t, t.TempDir(), "short.yaml", content)

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "all 6 card values") {
		t.Fatalf("err = %v, want a missing-value complaint", err)
	}
}

func TestLoadFileDuplicateValue(t *testing.T) {
	content := strings.Replace(validProtocolYAML, "  - value: 5\n", "  - value: 3\n", 1)
	path := writeProtocolFile(t, t.TempDir(), "dup.yaml", content)

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "duplicate card value") {
		t.Fatalf("err = %v, want a duplicate-value complaint", err)
	}
}

func TestLoadFileUnknownKind(t *testing.T) {
	content := strings.Replace(validProtocolYAML, "kind: draw", "kind: levitate", 1)
	path := writeProtocolFile(t, t.TempDir(), "bad.yaml", content)

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "unknown effect kind") {
		t.Fatalf("err = %v, want an unknown-kind complaint", err)
	}
}

func TestLoadDirMixedFiles(t *testing.T) {
	dir := t.TempDir()
	writeProtocolFile(t, dir, "gravity.yaml", validProtocolYAML)
	writeProtocolFile(t, dir, "broken.yml", "name: Broken\ncards: [")
	writeProtocolFile(t, dir, "notes.txt", "not a protocol")

	lib := NewLibrary()
	loaded, err := LoadDir(lib, dir)

	if len(loaded) != 1 || loaded[0] != "Gravity" {
		t.Fatalf("loaded = %v, want [Gravity]", loaded)
	}
	if err == nil || !strings.Contains(err.Error(), "1 file(s) failed") {
		t.Fatalf("err = %v, want the aggregate failure report", err)
	}
	if !lib.Has("Gravity") {
		t.Fatal("the valid protocol must still register")
	}
}
