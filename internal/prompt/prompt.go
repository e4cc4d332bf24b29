/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter defines the interface for user prompting
type Prompter interface {
	ConfirmDeployment(group, account string) (bool, error)
}

// StdinPrompter implements Prompter using standard input
type StdinPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewStdinPrompter creates a new prompter that reads from stdin
func NewStdinPrompter() *StdinPrompter {
	return &StdinPrompter{input: os.Stdin, output: os.Stderr}
}

// NewPrompter creates a prompter reading answers from input and writing questions to output
func NewPrompter(input io.Reader, output io.Writer) *StdinPrompter {
	return &StdinPrompter{input: input, output: output}
}

// ConfirmDeployment asks the user whether the group may be re-imaged. The
// deployment detaches and later terminates one of the group's instances.
func (p *StdinPrompter) ConfirmDeployment(group, account string) (bool, error) {
	fmt.Fprintf(p.output, "\nOne instance of %s will be detached, updated and terminated.\n", group)
	fmt.Fprintf(p.output, "Do you want to re-image auto scaling group %s in account %s? [y/N]: ", group, account)

	scanner := bufio.NewScanner(p.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read user input: %w", err)
		}
		// EOF or empty input - treat as "no"
		return false, nil
	}

	return isYes(scanner.Text()), nil
}

func isYes(answer string) bool {
	response := strings.ToLower(strings.TrimSpace(answer))
	return response == "y" || response == "yes"
}

// defaultPrompter is the package-level default prompter
var defaultPrompter Prompter = NewStdinPrompter()

// SetPrompter allows injection of a custom prompter (for testing)
func SetPrompter(p Prompter) {
	defaultPrompter = p
}

// GetDefaultPrompter returns the current default prompter (for testing)
func GetDefaultPrompter() Prompter {
	return defaultPrompter
}

// ConfirmDeployment prompts the user to confirm a deployment using the default prompter
// Returns true if the user confirms (y/yes), false otherwise
func ConfirmDeployment(group, account string) (bool, error) {
	return defaultPrompter.ConfirmDeployment(group, account)
}
