package validate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paperfold/receiptscan/internal/extract"
)

// Loader reads a fixture document by path.
type Loader func(path string) ([]byte, error)

// Harness drives an extractor over a fixture corpus and scores every
// expected field with the fuzzy match rules. Fixtures run strictly
// sequentially to keep failure attribution deterministic.
type Harness struct {
	extractor extract.Extractor
	load      Loader
	out       io.Writer
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithLoader overrides how fixture documents are read. The default is
// os.ReadFile.
func WithLoader(load Loader) HarnessOption {
	return func(h *Harness) {
		h.load = load
	}
}

// WithOutput streams per-field pass/fail lines to w.
func WithOutput(w io.Writer) HarnessOption {
	return func(h *Harness) {
		h.out = w
	}
}

// NewHarness creates a Harness around the given extractor.
func NewHarness(extractor extract.Extractor, opts ...HarnessOption) *Harness {
	h := &Harness{
		extractor: extractor,
		load:      os.ReadFile,
		out:       io.Discard,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Failure records one field check that did not satisfy its expectation.
type Failure struct {
	Fixture  string
	Field    string
	Expected any
	Actual   any
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %s: expected '%v', got '%v'", f.Fixture, f.Field, f.Expected, f.Actual)
}

// Summary aggregates the outcome of one harness run. A fresh Summary is
// produced per run.
type Summary struct {
	Passed   int
	Failed   int
	Failures []Failure
}

// OK reports whether no field check failed.
func (s *Summary) OK() bool { return s.Failed == 0 }

// Run processes the fixtures one after another. A fatal extraction failure
// counts as one failure for the affected fixture and aborts only that
// fixture's checks.
func (h *Harness) Run(ctx context.Context, fixtures []Fixture) *Summary {
	report := &Summary{}
	for _, fixture := range fixtures {
		h.runFixture(ctx, fixture, report)
	}
	return report
}

func (h *Harness) runFixture(ctx context.Context, fixture Fixture, report *Summary) {
	fmt.Fprintf(h.out, "Testing: %s (%s)\n", fixture.Document, fixture.Description)

	result, err := h.extract(ctx, fixture.Document)
	if err != nil {
		report.Failed++
		report.Failures = append(report.Failures, Failure{
			Fixture:  fixture.Document,
			Field:    "extraction",
			Expected: "success",
			Actual:   err,
		})
		fmt.Fprintf(h.out, "  FATAL: %v\n", err)
		return
	}

	for _, c := range fieldChecks(fixture.Expected, result) {
		h.score(fixture.Document, c, report)
	}

	// Tax rates use the one-directional coverage rule instead of Match.
	if expected := fixture.Expected.TaxRates; len(expected) > 0 {
		actual := actualRates(result)
		if RatesCovered(expected, actual) {
			report.Passed++
			fmt.Fprintf(h.out, "  ok taxes.rates: %v\n", actual)
		} else {
			report.Failed++
			report.Failures = append(report.Failures, Failure{fixture.Document, "taxes.rates", expected, actual})
			fmt.Fprintf(h.out, "  FAIL taxes.rates: expected %v, got %v\n", expected, actual)
		}
	}
}

func (h *Harness) extract(ctx context.Context, path string) (*extract.Result, error) {
	document, err := h.load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return h.extractor.Extract(ctx, document, path)
}

// check pairs one expectation with the extracted value.
type check struct {
	field    string
	expected any
	actual   any
}

func (h *Harness) score(fixture string, c check, report *Summary) {
	if Match(c.expected, c.actual) {
		report.Passed++
		fmt.Fprintf(h.out, "  ok %s: %v\n", c.field, c.actual)
		return
	}
	report.Failed++
	report.Failures = append(report.Failures, Failure{fixture, c.field, c.expected, c.actual})
	fmt.Fprintf(h.out, "  FAIL %s: expected '%v', got '%v'\n", c.field, c.expected, c.actual)
}

// fieldChecks lists every set expectation against its extracted value.
func fieldChecks(exp Expected, res *extract.Result) []check {
	var checks []check
	add := func(field string, expected, actual any) {
		checks = append(checks, check{field, expected, actual})
	}

	if exp.IssuerName != "" {
		add("issuer.name", exp.IssuerName, res.Issuer.Name)
	}
	if exp.AddressCity != "" {
		add("issuer.address.city", exp.AddressCity, deref(res.Issuer.Address.City))
	}
	if exp.AddressCountry != "" {
		add("issuer.address.country", exp.AddressCountry, res.Issuer.Address.Country)
	}
	if exp.VATID != "" {
		add("issuer.vat_id", exp.VATID, deref(res.Issuer.VATID))
	}
	if exp.TaxNumber != "" {
		add("issuer.tax_number", exp.TaxNumber, deref(res.Issuer.TaxNumber))
	}
	if exp.ReceiptNumber != "" {
		add("receipt.number", exp.ReceiptNumber, deref(res.Receipt.Number))
	}
	if exp.ReceiptDate != "" {
		add("receipt.date", exp.ReceiptDate, res.Receipt.Date)
	}
	if exp.ReceiptType != nil {
		add("receipt.type", exp.ReceiptType, res.Receipt.Type)
	}
	if exp.AmountsGross != nil {
		add("amounts.gross", *exp.AmountsGross, res.Amounts.Gross)
	}
	if exp.AmountsNet != nil {
		add("amounts.net", *exp.AmountsNet, derefFloat(res.Amounts.Net))
	}
	if exp.Currency != "" {
		add("amounts.currency", exp.Currency, res.Amounts.Currency)
	}
	if exp.PaymentMethod != "" {
		add("payment.method", exp.PaymentMethod, res.Payment.Method)
	}
	if exp.CardLast4 != "" {
		add("payment.card_last_4", exp.CardLast4, deref(res.Payment.CardLast4))
	}
	return checks
}

func actualRates(res *extract.Result) []float64 {
	rates := make([]float64, 0, len(res.Taxes))
	for _, tax := range res.Taxes {
		rates = append(rates, tax.Rate)
	}
	return rates
}

// deref keeps a nil pointer visible to Match as a non-string value.
func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
