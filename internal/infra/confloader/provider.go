package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// mapProvider is a koanf.Provider over a map with dotted keys.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}
