/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/fang"
	"github.com/orien/rebake/internal/logging"
	"github.com/orien/rebake/internal/version"
	"github.com/spf13/cobra"
)

// closeLog closes the log file opened for the running command
var closeLog = func() error { return nil }

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rebake",
	Short: "Re-image and roll AWS auto scaling groups",
	Long: `Rebake refreshes the machine image behind an AWS auto scaling group:

• Detaches one healthy instance from the group
• Updates it in place over SSH, a local command or a simple wait
• Bakes a new image from it and publishes a launch template version
• Terminates the detached instance and starts an instance refresh

Use rebake when a group's image needs patching and the group should roll
onto the result without hand-building an image first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logFile, _ := cmd.Flags().GetString("log-file")

		ctx, closeFile, err := logging.Setup(cmd.Context(), logging.Options{
			Verbose: verbose,
			File:    logFile,
			Output:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		closeLog = closeFile
		cmd.SetContext(ctx)
		return nil
	},
}

// RootCommand returns the root command, for tools generating documentation
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute runs the root command through fang for styled help and errors.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	defer func() { _ = closeLog() }()

	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.GitCommit),
		fang.WithErrorHandler(errorHandler),
	)
}

// errorHandler leaves out errors the command has already reported
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var reported *reportedError
	if errors.As(err, &reported) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// reportedError marks a failure that has been shown to the operator already
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "rebake.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")
}
