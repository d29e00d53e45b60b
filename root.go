package fullpipe

import (
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/32bitkid/fullpipe/scene"
)

const indexFile = "scenes.yaml"

var ErrSceneNotFound = errors.New("scene not found")

// Root is reference to the root path of a game: a scenes.yaml index next
// to one description file per scene.
type Root struct {
	Path    string
	Mapping []SceneMapping
}

// SceneMapping is an entry of the scene index.
type SceneMapping interface {
	ID() int
	Name() string
	Description() (*scene.Description, error)
}

func NewRoot(path string) Root {
	return Root{Path: path}
}

type indexEntry struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// LoadMapping parses the scene index that exists in the Root folder.
func (root *Root) LoadMapping() error {
	data, err := os.ReadFile(path.Join(root.Path, indexFile))
	if err != nil {
		return fmt.Errorf("failed to read scene index: %w", err)
	}

	var index struct {
		Scenes []indexEntry `yaml:"scenes"`
	}
	if err := yaml.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("failed to parse scene index: %w", err)
	}

	root.Mapping = root.Mapping[:0]
	seen := map[int]bool{}
	for _, e := range index.Scenes {
		if e.File == "" {
			return fmt.Errorf("scene %d: missing file", e.ID)
		}
		if seen[e.ID] {
			return fmt.Errorf("scene %d: duplicate id", e.ID)
		}
		seen[e.ID] = true

		root.Mapping = append(root.Mapping, &diskMapping{
			id:       e.ID,
			name:     e.Name,
			file:     e.File,
			rootPath: root.Path,
		})
	}
	return nil
}

// Scene returns the index entry for id.
func (root *Root) Scene(id int) (SceneMapping, error) {
	for _, m := range root.Mapping {
		if m.ID() == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrSceneNotFound, id)
}

// SceneByName returns the index entry named name.
func (root *Root) SceneByName(name string) (SceneMapping, error) {
	for _, m := range root.Mapping {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
}

// EnterScene loads scene id of root into the engine.
func (e *Engine) EnterScene(root *Root, id int) error {
	m, err := root.Scene(id)
	if err != nil {
		return err
	}
	desc, err := m.Description()
	if err != nil {
		return err
	}
	_, err = e.LoadScene(desc)
	return err
}
