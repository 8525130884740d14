// Package registry loads TokenData templates from a directory of YAML files
// into a domain.Registry. This is the token-definition file loader named as
// an external collaborator in §1 — the core only ever consumes the
// already-parsed *domain.Registry this package produces.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cascadeengine/internal/domain"
)

// fileCategory mirrors TokenData.category's tagged-union shape for the YAML
// encoding: exactly one of the nested structs should be set.
type fileCategory struct {
	Hero      *heroFields      `yaml:"hero"`
	Landscape *landscapeFields `yaml:"landscape"`
	Unit      *unitFields      `yaml:"unit"`
	Item      *struct{}        `yaml:"item"`
	Command   *struct{}        `yaml:"command"`
}

type heroFields struct {
	Health  int `yaml:"health"`
	Defense int `yaml:"defense"`
}

type unitFields struct {
	Health  int `yaml:"health"`
	Defense int `yaml:"defense"`
	Attack  int `yaml:"attack"`
}

type landscapeFields struct {
	Slots []struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
		Z int `yaml:"z"`
	} `yaml:"slots"`
}

type fileBehavior struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Triggers    []fileTrigger `yaml:"triggers"`
	Actions     []yaml.Node   `yaml:"actions"`
}

type fileTrigger struct {
	Activator string     `yaml:"activator"`
	When      string     `yaml:"when"`
	And       *yaml.Node `yaml:"and"`
}

type tokenFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Cost        int            `yaml:"cost"`
	Types       []string       `yaml:"types"`
	Category    fileCategory   `yaml:"category"`
	Behaviors   []fileBehavior `yaml:"behaviors"`
}

// Load reads every *.yaml file in dir into a domain.Registry. The file stem
// becomes the template id (§6). Unknown top-level fields are rejected by
// yaml.v3's KnownFields when decoding with a strict decoder.
func Load(dir string) (*domain.Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: read dir %s: %w", dir, err)
	}

	var templates []*domain.TokenData
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".yaml")
		tmpl, err := loadFile(filepath.Join(dir, e.Name()), id)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", e.Name(), err)
		}
		templates = append(templates, tmpl)
	}
	return domain.NewRegistry(templates), nil
}

func loadFile(path, id string) (*domain.TokenData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var tf tokenFile
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	category, err := buildCategory(tf.Category)
	if err != nil {
		return nil, err
	}

	behaviors := make([]domain.Behavior, 0, len(tf.Behaviors))
	for _, fb := range tf.Behaviors {
		triggers := make([]domain.Trigger, 0, len(fb.Triggers))
		for _, ft := range fb.Triggers {
			activator, err := parseActivator(ft.Activator)
			if err != nil {
				return nil, err
			}
			trig := domain.Trigger{
				When: domain.TriggerWhen{Activator: activator, Name: domain.TriggerState(ft.When)},
			}
			if ft.And != nil {
				pred, err := decodePredicate(ft.And)
				if err != nil {
					return nil, fmt.Errorf("behavior %s: %w", fb.Name, err)
				}
				trig.And = pred
			}
			triggers = append(triggers, trig)
		}

		actions := make([]domain.Action, 0, len(fb.Actions))
		for i := range fb.Actions {
			a, err := decodeAction(&fb.Actions[i])
			if err != nil {
				return nil, fmt.Errorf("behavior %s: action %d: %w", fb.Name, i, err)
			}
			actions = append(actions, a)
		}

		behaviors = append(behaviors, domain.Behavior{
			Name:        fb.Name,
			Description: fb.Description,
			Triggers:    triggers,
			Actions:     actions,
		})
	}

	return &domain.TokenData{
		ID:          id,
		Name:        tf.Name,
		Description: tf.Description,
		Cost:        tf.Cost,
		Types:       tf.Types,
		Category:    category,
		Behaviors:   behaviors,
	}, nil
}

func buildCategory(fc fileCategory) (domain.Category, error) {
	switch {
	case fc.Hero != nil:
		return domain.Category{Kind: domain.CategoryHero, Health: fc.Hero.Health, Defense: fc.Hero.Defense}, nil
	case fc.Landscape != nil:
		slots := make([]domain.SlotPosition, 0, len(fc.Landscape.Slots))
		for _, s := range fc.Landscape.Slots {
			slots = append(slots, domain.SlotPosition{X: s.X, Y: s.Y, Z: s.Z})
		}
		return domain.Category{Kind: domain.CategoryLandscape, Slots: slots}, nil
	case fc.Unit != nil:
		return domain.Category{Kind: domain.CategoryUnit, Health: fc.Unit.Health, Defense: fc.Unit.Defense, Attack: fc.Unit.Attack}, nil
	case fc.Item != nil:
		return domain.Category{Kind: domain.CategoryItem}, nil
	case fc.Command != nil:
		return domain.Category{Kind: domain.CategoryCommand}, nil
	default:
		return domain.Category{}, fmt.Errorf("token file declares no category")
	}
}

func parseActivator(s string) (domain.ActivatorKind, error) {
	switch s {
	case "owned":
		return domain.ActivatorOwned, nil
	case "opponent":
		return domain.ActivatorOpponent, nil
	case "this":
		return domain.ActivatorThis, nil
	case "either":
		return domain.ActivatorEither, nil
	default:
		return 0, fmt.Errorf("unknown activator %q", s)
	}
}
