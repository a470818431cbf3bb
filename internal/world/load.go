package world

import (
	"fmt"
	"io"
	"os"

	"github.com/tatianab/veritas-chamber/internal/models"
	"gopkg.in/yaml.v3"
)

// worldFile is the on-disk layout. Scenes and choices are YAML mappings
// walked as nodes so their declared order survives decoding.
type worldFile struct {
	Title   string    `yaml:"title"`
	Initial string    `yaml:"initial"`
	Scenes  yaml.Node `yaml:"scenes"`
}

type sceneFile struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Choices     yaml.Node `yaml:"choices"`
}

type choiceFile struct {
	Description string    `yaml:"description"`
	Destination string    `yaml:"destination"`
	Effects     yaml.Node `yaml:"effects"`
}

// LoadFile reads and validates a world from a YAML file.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	return Parse(data)
}

// Load reads and validates a world from r.
func Load(r io.Reader) (*World, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read world: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML world definition.
func Parse(data []byte) (*World, error) {
	var wf worldFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}

	var scenes []models.Scene
	var warnings []string
	err := eachPair(&wf.Scenes, func(id string, value *yaml.Node) error {
		var sf sceneFile
		if err := value.Decode(&sf); err != nil {
			return fmt.Errorf("scene %q: %w", id, err)
		}
		sc := models.Scene{ID: id, Title: sf.Title, Description: sf.Description}
		err := eachPair(&sf.Choices, func(choiceID string, value *yaml.Node) error {
			var cf choiceFile
			if err := value.Decode(&cf); err != nil {
				return fmt.Errorf("scene %q choice %q: %w", id, choiceID, err)
			}
			c := models.Choice{ID: choiceID, Description: cf.Description, Destination: cf.Destination}
			err := eachPair(&cf.Effects, func(kind string, value *yaml.Node) error {
				k := models.EffectKinds.Parse(kind)
				if k == nil {
					warnings = append(warnings, fmt.Sprintf("scene %q choice %q: ignoring unknown effect %q", id, choiceID, kind))
					return nil
				}
				var v string
				if err := value.Decode(&v); err != nil {
					return fmt.Errorf("scene %q choice %q effect %q: %w", id, choiceID, kind, err)
				}
				c.Effects = append(c.Effects, models.Effect{Kind: *k, Value: v})
				return nil
			})
			if err != nil {
				return err
			}
			sc.Choices = append(sc.Choices, c)
			return nil
		})
		if err != nil {
			return err
		}
		scenes = append(scenes, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}

	w, err := New(wf.Title, wf.Initial, scenes)
	if err != nil {
		return nil, err
	}
	w.warnings = warnings
	return w, nil
}

// eachPair calls fn for every key/value of a mapping node in document order.
// An absent or null node has no pairs.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
