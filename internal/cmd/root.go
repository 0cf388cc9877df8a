package cmd

import (
	"github.com/nniemeir/filmFS/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the filmfs CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "filmfs",
		Short: "filmfs - A FUSE-based read-only filesystem for a video library with watch tracking",
		Long: `filmfs exposes a flat directory of video files as a read-only FUSE mount.

While mounted, reads issued by recognized media-player processes are recorded
in a local SQLite watch history: the first read of a playback session counts
as a viewing, repeated reads from the same process are suppressed.

Use subcommands to perform different operations:
  - mount: Mount the video library at a specified mountpoint
  - watched: Show the recorded watch history
  - seed: Generate a scratch library of dummy video files for testing`,
		Version: version.GetFullVersion(),
	}

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	watchedCmd := NewWatchedCmd()
	seedCmd := NewSeedCmd()

	mountCmd.GroupID = groupFilesystem
	watchedCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities

	// Add subcommands
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(watchedCmd)
	rootCmd.AddCommand(seedCmd)

	return rootCmd
}
