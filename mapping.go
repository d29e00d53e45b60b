package fullpipe

import (
	"fmt"
	"path"

	"github.com/32bitkid/fullpipe/scene"
)

type diskMapping struct {
	id   int
	name string
	file string

	rootPath string

	cache *scene.Description
}

func (dm *diskMapping) ID() int { return dm.id }

// Name falls back to the name in the description once it is loaded.
func (dm *diskMapping) Name() string {
	if dm.name == "" && dm.cache != nil {
		return dm.cache.Name
	}
	return dm.name
}

func (dm *diskMapping) Description() (*scene.Description, error) {
	if dm.cache != nil {
		return dm.cache, nil
	}

	desc, err := scene.Load(path.Join(dm.rootPath, dm.file))
	if err != nil {
		return nil, fmt.Errorf("scene %d: %w", dm.id, err)
	}
	if desc.ID == 0 {
		desc.ID = dm.id
	}

	dm.cache = desc
	return dm.cache, nil
}
