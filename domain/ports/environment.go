package ports

import (
	"context"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// Environment is the operating environment that actually starts components.
// It only knows the stubs declared in the host manifest.
type Environment interface {
	Start(ctx context.Context, req entities.StartRequest) error
}
