// Command promo-ingest builds the promo code membership filter consumed by
// the server (--promo-filter). It streams gzipped code lists concurrently,
// adds every plausible code to a per-file bloom filter, merges the filters,
// and writes the result to disk. False positives are acceptable: a wrongly
// accepted code still grants only the fixed stub discount.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

const (
	progressEvery = 10_000_000
	minCodeLen    = 4
	maxCodeLen    = 12
)

func main() {
	var (
		dataDir  string
		outPath  string
		capacity uint
		fpr      float64
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.gz code lists")
	flag.StringVar(&outPath, "out", "promo-filter.bin", "output path for the serialized filter")
	flag.UintVar(&capacity, "capacity", 10_000_000, "expected number of distinct codes")
	flag.Float64Var(&fpr, "fpr", 0.001, "target false positive rate")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outPath, capacity, fpr); err != nil {
		slog.Error("promo ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("promo ingest completed successfully")
}

func run(ctx context.Context, dataDir, outPath string, capacity uint, fpr float64) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "list code files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.gz code lists in %s", dataDir)
	}

	slog.Info("building filters", slog.Int("files", len(files)))

	filters := make([]*bloom.BloomFilter, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(buildFilterForFile(gctx, i, path, capacity, fpr, filters))
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "build filters")
	}

	// Merge into one filter. All filters share the same parameters.
	merged := filters[0]
	for _, f := range filters[1:] {
		if err := merged.Merge(f); err != nil {
			return errors.Wrap(err, "merge filters")
		}
	}

	return writeFilter(merged, outPath)
}

func buildFilterForFile(
	ctx context.Context,
	idx int,
	path string,
	capacity uint,
	fpr float64,
	filters []*bloom.BloomFilter,
) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(capacity, fpr)
		var count uint64

		if err := streamGzFile(ctx, path, func(code string) {
			if len(code) < minCodeLen || len(code) > maxCodeLen {
				return
			}
			filter.AddString(strings.ToUpper(code))
			count++
			if count%progressEvery == 0 {
				slog.Info("progress", slog.Int("file", idx+1), slog.Uint64("codes", count))
			}
		}); err != nil {
			return errors.Wrapf(err, "ingest %s", path)
		}

		slog.Info("file complete", slog.String("path", path), slog.Uint64("codes", count))

		filters[idx] = filter
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(code string)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

func writeFilter(filter *bloom.BloomFilter, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() { _ = out.Close() }()

	n, err := filter.WriteTo(out)
	if err != nil {
		return errors.Wrap(err, "write filter")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output file")
	}

	slog.Info("filter written", slog.String("path", outPath), slog.Int64("bytes", n))
	return nil
}
