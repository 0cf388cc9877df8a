package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	_ "bazil.org/fuse/fs/fstestutil"
	"github.com/spf13/cobra"

	"github.com/nniemeir/filmFS/filmfs"
	"github.com/nniemeir/filmFS/internal/config"
	"github.com/nniemeir/filmFS/internal/history"
	"github.com/nniemeir/filmFS/internal/watch"
	"github.com/nniemeir/filmFS/library"
	"github.com/nniemeir/filmFS/version"
)

// NewMountCmd creates and returns the mount subcommand for the filmfs CLI.
// It mounts the configured video library at the given mountpoint.
func NewMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount the video library",
		Long: `Mount the video library as a read-only filesystem at MOUNTPOINT.

The library directory is taken from LIBRARY_PATH in the configuration file
at ~/.config/filmfs/config. The library is scanned once; files added to it
afterwards appear on the next mount.`,
		Args: cobra.ExactArgs(1),
		Run:  runMount,
	}
}

func runMount(cmd *cobra.Command, args []string) {
	// Print version info on startup
	fmt.Printf("filmfs %s starting...\n", version.GetFullVersion())

	mountpoint := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if pathsOverlap(cfg.LibraryPath, mountpoint) {
		log.Fatalf("Mountpoint %s overlaps library directory %s", mountpoint, cfg.LibraryPath)
	}

	catalog, err := library.Scan(cfg.LibraryPath)
	if err != nil {
		log.Fatalf("Failed to scan library: %v", err)
	}

	store, err := history.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open watch history: %v", err)
	}

	detector := watch.NewDetector(cfg.MediaPlayers, watch.ProcIdentifier{}, store)
	filesystem := filmfs.NewFS(catalog, detector)

	if cfg.Debug {
		fuse.Debug = func(msg interface{}) {
			log.Printf("fuse: %v", msg)
		}
	}

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("filmfs"),
		fuse.Subtype("filmfs"),
		fuse.ReadOnly(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		// Unmount filesystem
		fuse.Unmount(mountpoint)
		c.Close()

		if err := store.Close(); err != nil {
			log.Printf("Failed to close watch history: %v", err)
		}

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("filmfs %s mounted at %s (%d videos, library: %s)",
		version.GetVersion(), mountpoint, catalog.Len(), cfg.LibraryPath)
	err = fs.Serve(c, filesystem)
	if err != nil {
		log.Fatal(err)
	}
}

// pathsOverlap reports whether one path contains the other. Mounting
// inside the library (or the library inside the mount) would make the
// filesystem serve itself.
func pathsOverlap(path1, path2 string) bool {
	p1 := filepath.Clean(path1)
	p2 := filepath.Clean(path2)

	if p1 == p2 {
		return true
	}
	return strings.HasPrefix(p1, p2+string(filepath.Separator)) ||
		strings.HasPrefix(p2, p1+string(filepath.Separator))
}
