// Package cmd provides the command-line interface implementation for filmfs.
//
// This package contains all the subcommand implementations for the filmfs CLI
// tool. It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - mount: FUSE filesystem mounting of the video library
//   - watched: Watch-history reporting
//   - seed: Scratch-library generation for testing
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The mount command wires together the
// library catalog, the watch detector, and the history store before serving
// the filesystem.
package cmd
