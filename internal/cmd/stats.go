package cmd

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dendrascience/toolshack/bucket"
	"github.com/dendrascience/toolshack/deferred"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"
)

// barPalette holds the colours a bucket's histogram bar can take. A bucket
// always gets the same colour.
var barPalette = []color.Color{
	lipgloss.Color("1"), lipgloss.Color("2"), lipgloss.Color("3"),
	lipgloss.Color("4"), lipgloss.Color("5"), lipgloss.Color("6"),
	lipgloss.Color("9"), lipgloss.Color("10"), lipgloss.Color("11"),
	lipgloss.Color("12"), lipgloss.Color("13"), lipgloss.Color("14"),
}

// NewStatsCmd creates and returns the stats subcommand, which reports how
// evenly files are spread across buckets.
func NewStatsCmd() *cobra.Command {
	var (
		histogram bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show bucket occupancy for a storage root",
		Long: `Show how many files and bytes each bucket of a storage root holds.

A histogram of files per bucket is drawn unless --histogram=false is given.
If the root holds a placement manifest, its totals are shown as well.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger(false)
			cfg, err := loadConfig(cmd, logger)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			cfg.DryRun = true
			m, err := cfg.Mapper(logger)
			if err != nil {
				log.Fatalf("Failed to create mapper: %v", err)
			}
			report, err := m.Scan()
			if err != nil {
				log.Fatalf("Error scanning storage root: %v", err)
			}

			out := cmd.OutOrStdout()
			printStats(out, report)
			if histogram {
				fmt.Fprint(out, renderHistogram(report, width))
			}

			manifest, err := deferred.Open(filepath.Join(m.Root(), bucket.ManifestName),
				deferred.JSON[bucket.Manifest](), deferred.WithLogger(nil))
			if err != nil {
				log.Printf("Warning: Failed to read manifest: %v", err)
				return
			}
			if placed, err := manifest.Value(); err == nil {
				fmt.Fprintf(out, "Manifest: %d placements, %d bytes, %d buckets used\n",
					placed.Len(), placed.TotalSize(), len(placed.BucketCounts()))
			}
		},
	}

	cmd.Flags().BoolVar(&histogram, "histogram", true, "Draw a histogram of files per bucket")
	cmd.Flags().IntVarP(&width, "width", "w", 50, "Width of the longest histogram bar")

	return cmd
}

func printStats(w io.Writer, r bucket.Report) {
	fmt.Fprintf(w, "Buckets: %d\n", len(r.Buckets))
	fmt.Fprintf(w, "Total files: %d\n", r.Files)
	fmt.Fprintf(w, "Total bytes: %d\n", r.Bytes)
	fmt.Fprintf(w, "Files per bucket: min=%d, max=%d\n", r.Min, r.Max)
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "Missing buckets: %d\n", len(r.Missing))
	}
	if len(r.Misplaced) > 0 {
		fmt.Fprintf(w, "Misplaced files: %d\n", len(r.Misplaced))
	}
}

// renderHistogram draws one line per bucket with a bar scaled so the fullest
// bucket is width cells long.
func renderHistogram(r bucket.Report, width int) string {
	var b strings.Builder
	for _, u := range r.Buckets {
		cells := 0
		if r.Max > 0 {
			cells = u.Files * width / r.Max
		}
		if cells == 0 && u.Files > 0 {
			cells = 1
		}
		fmt.Fprintf(&b, "%s %6d %s\n", u.Name, u.Files, barStyle(u.Name).Render(strings.Repeat("█", cells)))
	}
	return b.String()
}

func barStyle(name string) lipgloss.Style {
	i := colorhash.HashString(name) % len(barPalette)
	if i < 0 {
		i = -i
	}
	return lipgloss.NewStyle().Foreground(barPalette[i])
}
