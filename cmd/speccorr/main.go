// Command speccorr prints the pairwise Pearson correlation of YLK spectra.
//
// Usage:
//
//	speccorr [flags] a.ylk b.ylk [c.ylk ...]
//
// Takes 2 to 5 records, resamples them onto the overlap of their wavenumber
// axes at the finest input resolution, and prints the correlation matrix.
// Records with a stored baseline are compared on their corrected signal;
// records without one are compared raw.
//
// Examples:
//
//	speccorr a.ylk b.ylk
//	speccorr -normalize run1.ylk run2.ylk run3.ylk
//	speccorr -raw a.ylk b.ylk
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-ftir/format/ylk"
	"github.com/cwbudde/algo-ftir/stats/spectra"
)

const (
	minSpectra = 2
	maxSpectra = 5
)

func main() {
	normalize := flag.Bool("normalize", false, "min-max normalize each spectrum before correlating")
	raw := flag.Bool("raw", false, "always compare raw signals, ignoring stored baselines")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: speccorr [flags] a.ylk b.ylk [c.ylk ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the pairwise Pearson correlation matrix of %d to %d spectra,\n", minSpectra, maxSpectra)
		fmt.Fprintf(os.Stderr, "resampled onto a common wavenumber grid.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  speccorr a.ylk b.ylk\n")
		fmt.Fprintf(os.Stderr, "  speccorr -normalize run1.ylk run2.ylk run3.ylk\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) < minSpectra || len(paths) > maxSpectra {
		fmt.Fprintf(os.Stderr, "error: need %d to %d spectra, got %d\n", minSpectra, maxSpectra, len(paths))
		flag.Usage()
		os.Exit(2)
	}

	names := make([]string, len(paths))
	xs := make([][]float64, len(paths))
	ys := make([][]float64, len(paths))
	for i, path := range paths {
		rec, err := ylk.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		names[i] = rec.Name
		xs[i] = rec.RawData.X
		ys[i] = signalOf(rec, *raw)
	}

	grid, resampled, err := spectra.CommonGrid(xs, ys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *normalize {
		for i := range resampled {
			resampled[i] = spectra.Normalize(resampled[i])
		}
	}

	m, err := spectra.CorrelationMatrix(resampled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("common grid: [%g, %g], %d points\n\n", grid[0], grid[len(grid)-1], len(grid))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "\t%s", n)
	}
	fmt.Fprintln(tw)
	for i, row := range m {
		fmt.Fprintf(tw, "%s", names[i])
		for _, v := range row {
			fmt.Fprintf(tw, "\t%.4f", v)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

// signalOf picks the comparison signal: raw minus stored baseline when one
// exists, raw otherwise.
func signalOf(rec *ylk.Record, forceRaw bool) []float64 {
	if forceRaw || len(rec.Baseline.Y) == 0 {
		return rec.RawData.Y
	}
	out := make([]float64, len(rec.RawData.Y))
	for i := range out {
		out[i] = rec.RawData.Y[i] - rec.Baseline.Y[i]
	}
	return out
}
