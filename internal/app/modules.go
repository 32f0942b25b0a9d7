package app

import (
	"github.com/vk/kujuconsist/internal/registry"
	"github.com/vk/kujuconsist/modules/csvb3d"
)

// coreModules is the definitive list of all modules that are compiled into
// the kujuconsist binary.
var coreModules = []registry.Module{
	&csvb3d.Module{},
}
