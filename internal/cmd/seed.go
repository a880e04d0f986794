package cmd

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSeedCmd creates and returns the seed subcommand for the shack CLI.
// It generates flat test files directly in the storage root.
func NewSeedCmd() *cobra.Command {
	var (
		fileCount int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate flat test files in the storage root",
		Long: `Generate a number of test files for exercising shack.

Files get random lowercase hex names with a .json or .txt extension and are
written directly into the storage root, ready for "shack place". Each file
contains a single UUID line.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger(verbose)
			cfg, err := loadConfig(cmd, logger)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			if verbose {
				fmt.Printf("Generating %d test files in %s\n", fileCount, cfg.Root)
			}
			if cfg.DryRun {
				fmt.Printf("DRY RUN - would create %d files in %s\n", fileCount, cfg.Root)
				return
			}
			created, err := seedFiles(cfg.Root, fileCount, verbose)
			if err != nil {
				log.Fatalf("Failed to seed files: %v", err)
			}
			if verbose {
				fmt.Printf("Successfully created %d files\n", created)
			}
		},
	}

	cmd.Flags().IntVarP(&fileCount, "count", "n", 10000, "Number of files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func seedFiles(root string, fileCount int, verbose bool) (int, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return 0, err
	}

	// Generate pool of 50 UUIDs
	uuidPool := make([]string, 50)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}

	filesCreated := 0
	for filesCreated < fileCount {
		filenameNum, err := rand.Int(rand.Reader, big.NewInt(0xFFFFFFFF))
		if err != nil {
			return filesCreated, err
		}
		extRand, _ := rand.Int(rand.Reader, big.NewInt(2))
		ext := ".json"
		if extRand.Int64() == 1 {
			ext = ".txt"
		}
		filePath := filepath.Join(root, fmt.Sprintf("%08x%s", filenameNum.Int64(), ext))

		// Skip if file already exists
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		uuidIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(uuidPool))))
		content := uuidPool[uuidIndex.Int64()] + "\n"

		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
			return filesCreated, err
		}
		filesCreated++

		if verbose && filesCreated%1000 == 0 {
			fmt.Printf("Created %d/%d files...\n", filesCreated, fileCount)
		}
	}
	return filesCreated, nil
}
