//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"aheyecare/internal/config"
)

func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
