// Package main provides the filmfs command-line interface.
//
// filmfs is a FUSE-based read-only filesystem that exposes a flat
// directory of video files and keeps a watch history: reads issued by
// recognized media-player processes are recorded in a local SQLite
// database, with repeated reads from one playback collapsed into a
// single viewing.
//
// The main binary supports multiple subcommands:
//   - mount: Mount the video library at a specified mountpoint
//   - watched: Show the recorded watch history
//   - seed: Generate a scratch library of dummy video files for testing
package main
