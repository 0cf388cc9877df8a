package cmd

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// seedExtensions are the extensions cycled through when generating a
// scratch library. All are recognized by the catalog scanner.
var seedExtensions = []string{"mp4", "mkv", "avi", "webm", "mov"}

// seedTitles feed the generated filenames.
var seedTitles = []string{
	"sunrise", "voyage", "static", "harvest", "meridian",
	"lantern", "driftwood", "cascade", "ember", "aperture",
}

// NewSeedCmd creates and returns the seed subcommand for the filmfs CLI.
// It generates a scratch library of dummy video files for testing.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a scratch library of dummy video files",
		Long: `Generate a flat directory of small dummy files with video extensions.

The files carry recognized video extensions so the catalog scanner picks
them up, but contain only a few UUID lines. Useful for exercising a mount
without a real video collection. A handful of decoy files with unrecognized
extensions is included so the scanner's filtering is visible.`,
		Run: func(cmd *cobra.Command, args []string) {
			runSeed(outputPath, fileCount, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 100, "Number of video files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(outputPath string, fileCount int, verbose bool) {
	if verbose {
		fmt.Printf("Generating %d dummy videos in %s\n", fileCount, outputPath)
	}

	// Create output directory
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Generate pool of 50 UUIDs for file content
	uuidPool := make([]string, 50)
	for i := 0; i < 50; i++ {
		uuidPool[i] = uuid.New().String()
	}

	filesCreated := 0
	for i := 0; filesCreated < fileCount; i++ {
		titleIdx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(seedTitles))))
		ext := seedExtensions[i%len(seedExtensions)]
		filename := fmt.Sprintf("%s_%04d.%s", seedTitles[titleIdx.Int64()], i, ext)
		filePath := filepath.Join(outputPath, filename)

		// Skip if file already exists
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		var content strings.Builder
		lines, _ := rand.Int(rand.Reader, big.NewInt(8))
		for l := int64(0); l <= lines.Int64(); l++ {
			idx, _ := rand.Int(rand.Reader, big.NewInt(50))
			content.WriteString(uuidPool[idx.Int64()] + "\n")
		}

		if err := os.WriteFile(filePath, []byte(content.String()), 0644); err != nil {
			log.Printf("Warning: Failed to write file %s: %v", filePath, err)
			continue
		}

		filesCreated++
		if verbose && filesCreated%50 == 0 {
			fmt.Printf("Created %d/%d files\n", filesCreated, fileCount)
		}
	}

	// Decoys the scanner must ignore
	for _, name := range []string{"notes.txt", "cover.jpg", "README"} {
		content := uuidPool[0] + "\n"
		if err := os.WriteFile(filepath.Join(outputPath, name), []byte(content), 0644); err != nil {
			log.Printf("Warning: Failed to write file %s: %v", name, err)
		}
	}

	fmt.Printf("Seeded %d video files (plus 3 decoys) in %s\n", filesCreated, outputPath)
}
