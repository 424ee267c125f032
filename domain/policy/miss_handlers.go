package policy

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// Ensure implementations satisfy the interface.
var _ ports.MissHandler = (*LogMissHandler)(nil)
var _ ports.MissHandler = (*StderrMissHandler)(nil)
var _ ports.MissHandler = (*NopMissHandler)(nil)

// LogMissHandler logs misses at debug level.
type LogMissHandler struct {
	Logger *slog.Logger
}

func (h *LogMissHandler) OnMiss(intent entities.Intent, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("intent not resolved", "action", intent.Action, "data", intent.Data, "reason", reason)
}

// StderrMissHandler prints misses to stderr.
type StderrMissHandler struct{}

func (h *StderrMissHandler) OnMiss(intent entities.Intent, reason string) {
	fmt.Fprintf(os.Stderr, "Unresolved intent [%s %s]: %s\n", intent.Action, intent.Data, reason)
}

// NopMissHandler does nothing.
type NopMissHandler struct{}

func (h *NopMissHandler) OnMiss(intent entities.Intent, reason string) {}
