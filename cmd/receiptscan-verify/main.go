package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/paperfold/receiptscan/internal/extract"
	"github.com/paperfold/receiptscan/internal/validate"
)

// receiptscan-verify runs the embedded fixture corpus against the live
// extractor and exits non-zero if any field check fails.
func main() {
	fs := ff.NewFlagSet("receiptscan-verify")
	var (
		apiKey     = fs.StringLong("api-key", "", "Gemini API key (or set GEMINI_API_KEY env var)")
		model      = fs.StringLong("model", "gemini-2.5-flash", "Gemini model name")
		timeoutSec = fs.IntLong("timeout", 120, "Per-document inference timeout in seconds")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTSCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	key, err := extract.ResolveAPIKey(*apiKey)
	if err != nil {
		slog.Error("Gemini API key is required. Set --api-key, GEMINI_API_KEY, or a .env entry")
		os.Exit(1)
	}

	extractor, err := extract.NewGemini(key, *model,
		extract.WithTimeout(time.Duration(*timeoutSec)*time.Second),
	)
	if err != nil {
		slog.Error("Failed to initialize Gemini", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	harness := validate.NewHarness(extractor, validate.WithOutput(os.Stdout))
	report := harness.Run(context.Background(), validate.Fixtures())

	fmt.Printf("\nRESULTS: %d passed, %d failed\n", report.Passed, report.Failed)
	if !report.OK() {
		fmt.Println("\nFailed checks:")
		for _, failure := range report.Failures {
			fmt.Printf("  - %s\n", failure)
		}
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed!")
}
