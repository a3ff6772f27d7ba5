// Package hook runs user supplied commands against processed album
// directories.
package hook

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

const markerDir = "<dir>"

// Hook is a command template. Arguments equal to "<dir>" are replaced with
// the album directory when run.
type Hook struct {
	command string
	args    []string
}

func New(conf string) (Hook, error) {
	parts, err := shlex.Split(conf)
	if err != nil {
		return Hook{}, err
	}
	if len(parts) == 0 {
		return Hook{}, fmt.Errorf("no command provided")
	}
	return Hook{command: parts[0], args: parts[1:]}, nil
}

func (h Hook) Run(ctx context.Context, dir string) error {
	args := make([]string, 0, len(h.args))
	for _, arg := range h.args {
		switch arg {
		case markerDir:
			args = append(args, dir)
		default:
			args = append(args, arg)
		}
	}

	cmd := exec.CommandContext(ctx, h.command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run cmd: %w", err)
	}
	return nil
}

func (h Hook) String() string {
	args := fmt.Sprintf("%q", append([]string{h.command}, h.args...))
	args = strings.TrimPrefix(args, "[")
	args = strings.TrimSuffix(args, "]")
	return fmt.Sprintf("hook (%s)", args)
}
