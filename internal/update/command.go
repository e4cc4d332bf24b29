/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package update

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/kballard/go-shellquote"
)

const (
	// AddressPlaceholder is replaced by the instance address in command arguments
	AddressPlaceholder = "{address}"

	// AddressEnv carries the instance address to the command
	AddressEnv = "REBAKE_INSTANCE_ADDRESS"
)

// CommandUpdater runs a local command against the instance, such as a configuration management playbook
type CommandUpdater struct {
	args []string
}

// NewCommandUpdater parses command with shell quoting rules
func NewCommandUpdater(command string) (*CommandUpdater, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updater command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("command updater requires a command")
	}

	return &CommandUpdater{args: args}, nil
}

// Apply runs the command with the address substituted and exported
func (c *CommandUpdater) Apply(ctx context.Context, address string) error {
	log := clog.FromContext(ctx)

	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = strings.ReplaceAll(arg, AddressPlaceholder, address)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), AddressEnv+"="+address)

	log.Debug("running update command", "command", shellquote.Join(args...))

	output, err := cmd.CombinedOutput()
	log.Debug("update output", "address", address, "output", string(output))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("update command interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, args[0], err)
	}

	return nil
}
