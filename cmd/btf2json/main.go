// Command btf2json converts a BTF blob plus a kernel symbol map into a
// Volatility 3 Intermediate Symbol File JSON profile, written to
// standard output.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	btf2json "github.com/frobware/btf2json"
	"github.com/frobware/btf2json/btf"
	"github.com/frobware/btf2json/domain"
	"github.com/frobware/btf2json/internal/diag"
	"github.com/frobware/btf2json/isf"
	"github.com/frobware/btf2json/symbolmap"
)

var (
	btfPath   = flag.String("btf", "", "path to a BTF blob or kernel ELF image containing one (required)")
	mapPath   = flag.String("map", "", "path to a System.map or kallsyms symbol file (required)")
	banner    = flag.String("banner", "", "linux_banner string to embed in metadata.linux.kernel.banner")
	arch      = flag.String("arch", isf.DefaultArch, "target architecture: x86_64, arm64, or i386")
	logFormat = flag.String("log-format", "text", "log format: text or json")
)

func main() {
	flag.Parse()

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if *logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if *btfPath == "" || *mapPath == "" {
		logger.Error("both --btf and --map are required")
		flag.Usage()
		os.Exit(2)
	}

	doc, warnings, err := run(*btfPath, *mapPath, *banner, *arch)
	if err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	warnings.WriteSummary(os.Stderr)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logger.Error("writing output", "error", err)
		os.Exit(1)
	}
}

// run performs the fetch/compute/execute pipeline: fetch reads and
// decodes the two input files, compute builds the ISF document in
// memory, and the caller (main) executes the I/O that writes it out.
// Returning the document only on complete success matches the
// "partial output is never written" requirement — nothing is emitted
// until the whole document exists.
func run(btfPath, mapPath, bannerFlag, archName string) (domain.Document, *diag.Collector, error) {
	a, err := isf.ResolveArch(archName)
	if err != nil {
		return domain.Document{}, nil, err
	}

	decoded, btfRaw, err := btf.LoadFile(btfPath)
	if err != nil {
		return domain.Document{}, nil, btf2json.ErrInputFile{Path: btfPath, Err: err}
	}
	slog.Default().Info("loaded BTF blob", "path", btfPath, "size", diag.ByteSize(len(btfRaw)))

	mapRaw, err := os.ReadFile(mapPath)
	if err != nil {
		return domain.Document{}, nil, btf2json.ErrInputFile{Path: mapPath, Err: err}
	}
	slog.Default().Info("loaded symbol map", "path", mapPath, "size", diag.ByteSize(len(mapRaw)))

	symbols, err := symbolmap.Parse(mapPath, bytes.NewReader(mapRaw))
	if err != nil {
		return domain.Document{}, nil, err
	}

	builder := isf.NewBuilder(decoded.Types, decoded.StringAt, a, decoded.Order, bannerFlag)
	doc, err := builder.Build(symbols, btfRaw, mapRaw)
	if err != nil {
		return domain.Document{}, nil, err
	}

	collector := diag.NewCollector()
	for _, w := range builder.Warnings() {
		collector.Add("%s", w.Message)
	}

	return doc, collector, nil
}
