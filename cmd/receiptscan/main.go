package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/paperfold/receiptscan/internal/archive"
	"github.com/paperfold/receiptscan/internal/extract"
)

const version = "0.2.0"

func main() {
	fs := ff.NewFlagSet("receiptscan")
	var (
		apiKey       = fs.StringLong("api-key", "", "Gemini API key (or set GEMINI_API_KEY env var)")
		model        = fs.StringLong("model", "gemini-2.5-flash", "Gemini model name")
		timeoutSec   = fs.IntLong("timeout", 60, "Per-document inference timeout in seconds")
		archivePath  = fs.StringLong("archive", "", "Optional BoltDB file archiving every extraction")
		rasterizePDF = fs.BoolLong("rasterize-pdf", "Render PDFs to PNG locally before upload")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTSCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	paths := fs.GetArgs()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "usage: receiptscan [flags] <document> [document...]\n%s\n", ffhelp.Flags(fs))
		os.Exit(1)
	}

	// Credential resolution is fatal before any network activity.
	key, err := extract.ResolveAPIKey(*apiKey)
	if err != nil {
		slog.Error("Gemini API key is required. Set --api-key, GEMINI_API_KEY, or a .env entry")
		os.Exit(1)
	}

	opts := []extract.Option{extract.WithTimeout(time.Duration(*timeoutSec) * time.Second)}
	if *rasterizePDF {
		opts = append(opts, extract.WithPDFRasterization())
	}

	extractor, err := extract.NewGemini(key, *model, opts...)
	if err != nil {
		slog.Error("Failed to initialize Gemini", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	var store *archive.Store
	if *archivePath != "" {
		store, err = archive.NewStore(*archivePath)
		if err != nil {
			slog.Error("Failed to open archive", "path", *archivePath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	// Documents are processed strictly sequentially, one blocking call each.
	results := make([]*extract.Result, 0, len(paths))
	for _, path := range paths {
		document, err := readDocument(path)
		if err != nil {
			slog.Error("Failed to read document", "path", path, "error", err)
			os.Exit(1)
		}

		result, err := extractor.Extract(context.Background(), document, path)
		if err != nil {
			slog.Error("Extraction failed", "path", path, "error", err)
			os.Exit(1)
		}

		if store != nil {
			if err := store.Save(path, result); err != nil {
				slog.Error("Failed to archive result", "path", path, "error", err)
				os.Exit(1)
			}
		}

		results = append(results, result)
	}

	if err := printJSON(os.Stdout, results); err != nil {
		slog.Error("Failed to encode results", "error", err)
		os.Exit(1)
	}
}

// readDocument loads one input document. A missing path maps to
// ErrDocumentNotFound; any other read failure surfaces as itself.
func readDocument(path string) ([]byte, error) {
	document, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", extract.ErrDocumentNotFound, path)
	}
	return document, err
}

// printJSON writes one object for a single document and an ordered array
// otherwise, indented, with non-ASCII characters kept literal.
func printJSON(w io.Writer, results []*extract.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
