package app

import (
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/modules/bram"
	"github.com/vk/socforge/modules/ddr"
	"github.com/vk/socforge/modules/i2c"
	"github.com/vk/socforge/modules/laplacian"
	"github.com/vk/socforge/modules/picorv32"
	"github.com/vk/socforge/modules/progloader"
	"github.com/vk/socforge/modules/spi"
	"github.com/vk/socforge/modules/timer"
	"github.com/vk/socforge/modules/uart"
)

// coreModules is the definitive list of all evaluators that are compiled
// into the socforge binary.
var coreModules = []registry.Module{
	&uart.Module{},
	&progloader.Module{},
	&i2c.Module{},
	&spi.Module{},
	&timer.Module{},
	&bram.Module{},
	&laplacian.Module{},
	&picorv32.Module{},
	&ddr.Module{},
}
