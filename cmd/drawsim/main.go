package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/Ashenafi-pixel/spin-to-win/award"
	"github.com/Ashenafi-pixel/spin-to-win/prize"
)

// drawsim runs the weighted prize draw many times and compares observed shares
// with the configured weights. With -data it also reports tickets already issued.
func main() {
	n := flag.Int("n", 100000, "Number of draws")
	catalogPath := flag.String("catalog", "", "Catalog JSON file (default: built-in catalog)")
	seed := flag.Int64("seed", 0, "Seed for a reproducible run (0: crypto/rand)")
	dataDir := flag.String("data", "", "Data directory holding awards.json to summarize")
	flag.Parse()

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		os.Exit(1)
	}
	if err := run(*n, *catalogPath, *seed, *dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "drawsim failed: %v\n", err)
		os.Exit(1)
	}
}

func run(n int, catalogPath string, seed int64, dataDir string) error {
	catalog, err := prize.Load(catalogPath)
	if err != nil {
		return err
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	var rng prize.RandomSource = prize.CryptoSource{}
	if seed != 0 {
		rng = prize.RandomFunc(rand.New(rand.NewSource(seed)).Float64)
	}

	counts := make([]int, len(catalog))
	for i := 0; i < n; i++ {
		counts[prize.SelectIndex(catalog, rng)]++
	}

	var issued map[string]int
	if dataDir != "" {
		issued, err = award.NewLedger(dataDir).Count()
		if err != nil {
			return fmt.Errorf("read award ledger: %w", err)
		}
	}

	shares := catalog.Share()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if issued != nil {
		fmt.Fprintln(tw, "PRIZE\tPREFIX\tWEIGHT\tEXPECTED\tOBSERVED\tISSUED")
	} else {
		fmt.Fprintln(tw, "PRIZE\tPREFIX\tWEIGHT\tEXPECTED\tOBSERVED")
	}
	for i, p := range catalog {
		observed := float64(counts[i]) / float64(n)
		if issued != nil {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%.4f\t%.4f\t%d\n", p.Name, p.CodePrefix, p.Weight, shares[i], observed, issued[p.CodePrefix])
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%.4f\t%.4f\n", p.Name, p.CodePrefix, p.Weight, shares[i], observed)
		}
	}
	return tw.Flush()
}
