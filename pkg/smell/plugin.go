package smell

import (
	"context"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/repository"
)

// Plugin is one smell test.
//
// Plugins are stateless. Setup and Cleanup bracket a single Run and may
// acquire resources scoped to it. Run must treat missing data (no issues, no
// tags, no prior release) as valid input and return fewer alerts rather than
// an error; errors are reserved for failures to reach the repository.
type Plugin interface {
	Name() string
	Description() string
	Setup(ctx context.Context) error
	Run(ctx context.Context, mod *module.Module, repo repository.Provider) ([]Alert, error)
	Cleanup(ctx context.Context) error
}

// Info describes a plugin for catalogues.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Base provides no-op Setup and Cleanup hooks for embedding.
type Base struct{}

func (Base) Setup(context.Context) error   { return nil }
func (Base) Cleanup(context.Context) error { return nil }
