// Command jws2ylk converts JASCO JWS spectrum files to YLK records.
//
// Usage:
//
//	jws2ylk [flags] file.jws [file.jws ...]
//
// Each input is decoded and written as <name>.ylk in the output directory.
// Files that fail to decode are reported and skipped; the remaining inputs
// are still converted.
//
// Examples:
//
//	jws2ylk sample.jws
//	jws2ylk -out converted/ run1.jws run2.jws run3.jws
//	jws2ylk -force -out . *.jws
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-ftir/format/jws"
	"github.com/cwbudde/algo-ftir/format/ylk"
)

func main() {
	outDir := flag.String("out", ".", "output directory for .ylk files")
	force := flag.Bool("force", false, "overwrite existing .ylk files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jws2ylk [flags] file.jws [file.jws ...]\n\n")
		fmt.Fprintf(os.Stderr, "Converts JASCO JWS spectrum files to YLK records.\n")
		fmt.Fprintf(os.Stderr, "Inputs that fail to decode are skipped with a warning.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jws2ylk sample.jws\n")
		fmt.Fprintf(os.Stderr, "  jws2ylk -out converted/ run1.jws run2.jws\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create output directory: %v\n", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tPoints\tChannels\tRange\tOutput\n")
	fmt.Fprintf(tw, "----\t------\t--------\t-----\t------\n")

	converted := 0
	for _, path := range paths {
		out, rec, err := convert(path, *outDir, *force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t[%g, %g]\t%s\n",
			filepath.Base(path),
			rec.Metadata.Points,
			rec.Metadata.Channels,
			rec.Range[0], rec.Range[1],
			out,
		)
		converted++
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}

	if converted < len(paths) {
		fmt.Fprintf(os.Stderr, "converted %d of %d files\n", converted, len(paths))
		os.Exit(1)
	}
}

func convert(path, outDir string, force bool) (string, *ylk.Record, error) {
	data, err := jws.DecodeFile(path)
	if err != nil {
		return "", nil, err
	}

	rec := ylk.FromDecoded(data, path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outDir, base+".ylk")

	if !force {
		if _, err := os.Stat(out); err == nil {
			return "", nil, fmt.Errorf("%s already exists (use -force to overwrite)", out)
		}
	}
	if err := rec.Save(out); err != nil {
		return "", nil, err
	}
	return out, rec, nil
}
