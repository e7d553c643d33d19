// Package executor runs the optional post-render refresh command, telling
// whatever displays the frame cache (fbi, feh, a kiosk browser) to reload.
package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/davoli/trackframe/internal/domain"
)

// CommandRefresher executes a configured command template after each frame.
// Occurrences of %s in the template are replaced with the frame path, e.g.
//
//	TRACKFRAME_REFRESH_CMD="pkill -USR1 fbi"
//	TRACKFRAME_REFRESH_CMD="feh --bg-center %s"
//
// An empty template makes Refresh a no-op.
type CommandRefresher struct {
	logger   *zap.Logger
	template string
}

// NewCommandRefresher creates a refresher from the configured template.
func NewCommandRefresher(logger *zap.Logger, cfg domain.Config) *CommandRefresher {
	template := cfg.GetRefreshCommand()
	if template == "" {
		logger.Info("No refresh command configured, display refresh disabled")
	} else {
		logger.Info("Refresh command configured", zap.String("command", template))
	}
	return &CommandRefresher{logger: logger, template: template}
}

// Refresh runs the refresh command with path substituted for %s.
func (r *CommandRefresher) Refresh(ctx context.Context, path string) error {
	if r.template == "" {
		return nil
	}

	fields := strings.Fields(r.template)
	args := make([]string, len(fields))
	for i, field := range fields {
		args[i] = strings.ReplaceAll(field, "%s", path)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("refresh command failed: %w (output: %s)", err, string(output))
	}

	r.logger.Debug("Display refreshed",
		zap.String("command", args[0]),
		zap.String("path", path))
	return nil
}
