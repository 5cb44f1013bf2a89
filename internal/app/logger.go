package app

import (
	"github.com/techmajster/saas-leave-system/internal/config"

	"go.uber.org/zap"
)

// NewLogger returns a JSON production logger in production and a
// human-readable development logger everywhere else.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
