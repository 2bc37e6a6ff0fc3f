package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// PathPlaceholder is replaced by the image path in command templates
const PathPlaceholder = "{path}"

// Applier sets the desktop wallpaper
type Applier interface {
	Apply(ctx context.Context, path string) error
}

// CommandApplier runs a configured command, such as
// "gsettings set org.gnome.desktop.background picture-uri file://{path}"
type CommandApplier struct {
	args   []string
	logger *slog.Logger
}

// NewCommandApplier splits template into arguments. The placeholder is
// substituted per argument, so paths containing spaces stay one argument.
func NewCommandApplier(template string, logger *slog.Logger) (*CommandApplier, error) {
	args := strings.Fields(template)
	if len(args) == 0 {
		return nil, errors.New("apply command is empty")
	}
	if !strings.Contains(template, PathPlaceholder) {
		return nil, fmt.Errorf("apply command must contain %s", PathPlaceholder)
	}

	return &CommandApplier{args: args, logger: logger}, nil
}

// Command returns the argument vector that would run for path
func (c *CommandApplier) Command(path string) []string {
	out := make([]string, len(c.args))
	for i, arg := range c.args {
		out[i] = strings.ReplaceAll(arg, PathPlaceholder, path)
	}
	return out
}

func (c *CommandApplier) Apply(ctx context.Context, path string) error {
	argv := c.Command(path)

	c.logger.Debug("Running apply command", "command", argv[0], "args", argv[1:])

	output, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("apply command %s failed: %w (output: %s)", argv[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}
