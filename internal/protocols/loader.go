package protocols

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TheApo/compile-sub002/internal/game"
)

// ProtocolFile is the YAML document describing one custom protocol.
type ProtocolFile struct {
	Name  string     `yaml:"name"`
	Cards []CardFile `yaml:"cards"`
}

// CardFile is one card of a custom protocol: its face value and the effects
// printed in each box.
type CardFile struct {
	Value  int                     `yaml:"value"`
	Top    []game.EffectDefinition `yaml:"top,omitempty"`
	Middle []game.EffectDefinition `yaml:"middle,omitempty"`
	Bottom []game.EffectDefinition `yaml:"bottom,omitempty"`
}

var knownKinds = map[game.EffectKind]bool{
	game.KindDraw: true, game.KindFlip: true, game.KindDelete: true,
	game.KindDiscard: true, game.KindShift: true, game.KindReturn: true,
	game.KindPlay: true, game.KindRearrangeProtocols: true,
	game.KindSwapProtocols: true, game.KindReveal: true, game.KindGive: true,
	game.KindTake: true, game.KindChoice: true, game.KindBlockCompile: true,
	game.KindDeleteAllInLane: true, game.KindValueModifier: true,
	game.KindExemptHandLimit: true, game.KindCompileShift: true,
}

// LoadFile parses and validates one protocol definition file.
func LoadFile(path string) (*ProtocolFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("protocols: read %s: %w", path, err)
	}
	var pf ProtocolFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("protocols: parse %s: %w", path, err)
	}
	if err := pf.validate(); err != nil {
		return nil, fmt.Errorf("protocols: %s: %w", path, err)
	}
	return &pf, nil
}

// LoadDir loads every .yaml/.yml protocol file in a directory into the
// library. Files that fail to parse are reported; the rest still load.
func LoadDir(lib *Library, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("protocols: read directory %s: %w", dir, err)
	}
	var loaded []string
	var errs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		pf, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if err := lib.Register(pf.Name, pf.AbilitySets()); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		loaded = append(loaded, pf.Name)
	}
	if len(errs) > 0 {
		return loaded, fmt.Errorf("protocols: %d file(s) failed to load: %s",
			len(errs), strings.Join(errs, "; "))
	}
	return loaded, nil
}

// AbilitySets arranges the file's cards by face value.
func (pf *ProtocolFile) AbilitySets() [CardsPerProtocol]*game.AbilitySet {
	var sets [CardsPerProtocol]*game.AbilitySet
	for _, card := range pf.Cards {
		if card.Value < 0 || card.Value >= CardsPerProtocol {
			continue
		}
		if len(card.Top) == 0 && len(card.Middle) == 0 && len(card.Bottom) == 0 {
			continue
		}
		sets[card.Value] = &game.AbilitySet{
			Top:    card.Top,
			Middle: card.Middle,
			Bottom: card.Bottom,
		}
	}
	return sets
}

func (pf *ProtocolFile) validate() error {
	if pf.Name == "" {
		return fmt.Errorf("protocol name is required")
	}
	seen := make(map[int]bool, CardsPerProtocol)
	for _, card := range pf.Cards {
		if card.Value < 0 || card.Value >= CardsPerProtocol {
			return fmt.Errorf("card value %d out of range 0..%d", card.Value, CardsPerProtocol-1)
		}
		if seen[card.Value] {
			return fmt.Errorf("duplicate card value %d", card.Value)
		}
		seen[card.Value] = true
		for _, box := range [][]game.EffectDefinition{card.Top, card.Middle, card.Bottom} {
			for _, def := range box {
				if err := validateEffect(def); err != nil {
					return fmt.Errorf("card %d: %w", card.Value, err)
				}
			}
		}
	}
	if len(seen) != CardsPerProtocol {
		return fmt.Errorf("protocol must define all %d card values", CardsPerProtocol)
	}
	return nil
}

func validateEffect(def game.EffectDefinition) error {
	if !knownKinds[def.Kind] {
		return fmt.Errorf("unknown effect kind %q", def.Kind)
	}
	if def.Conditional != nil {
		if def.Conditional.Effect == nil {
			return fmt.Errorf("conditional on %q has no effect", def.Kind)
		}
		if def.Conditional.Type != game.ConditionalThen && def.Conditional.Type != game.ConditionalIfExecuted {
			return fmt.Errorf("conditional on %q has unknown type %q", def.Kind, def.Conditional.Type)
		}
		if err := validateEffect(*def.Conditional.Effect); err != nil {
			return err
		}
	}
	for _, branch := range def.Params.Branches {
		if branch != nil {
			if err := validateEffect(*branch); err != nil {
				return err
			}
		}
	}
	return nil
}
