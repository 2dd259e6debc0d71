package validate

import (
	"bytes"
	"context"
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/paperfold/receiptscan/internal/extract"
)

// mockExtractor is a test double that records calls instead of reaching the
// network.
type mockExtractor struct {
	result *extract.Result
	err    error
	calls  int
}

func (m *mockExtractor) Extract(ctx context.Context, document []byte, filename string) (*extract.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockExtractor) Close() error { return nil }

func strPtr(s string) *string { return &s }

// edekaResult extracts exactly what the EDEKA fixture expects.
func edekaResult() *extract.Result {
	net := 41.93
	return &extract.Result{
		Receipt: extract.Receipt{
			Date:   "2025-12-03",
			Number: strPtr("0847"),
			Type:   "cash_register",
		},
		Amounts: extract.Amounts{
			Gross:    50.00,
			Net:      &net,
			Currency: "EUR",
		},
		Taxes: []extract.Tax{
			{Rate: 19, Amount: 6.65},
			{Rate: 7, Amount: 1.42},
		},
		Issuer: extract.Issuer{
			Name: "EDEKA Müller Filiale München",
			Address: extract.Address{
				City:    strPtr("München"),
				Country: "DE",
			},
			VATID: strPtr("DE123456789"),
		},
		Payment: extract.Payment{
			Method:    "card",
			CardLast4: strPtr("1234"),
		},
		RawText: "EDEKA Müller ...",
	}
}

func edekaFixture() Fixture {
	for _, fixture := range Fixtures() {
		if fixture.Description == "EDEKA supermarket receipt" {
			return fixture
		}
	}
	Fail("EDEKA fixture not embedded")
	return Fixture{}
}

var _ = Describe("Harness", func() {
	var (
		mock    *mockExtractor
		output  *bytes.Buffer
		harness *Harness
		loads   int
	)

	BeforeEach(func() {
		mock = &mockExtractor{result: edekaResult()}
		output = &bytes.Buffer{}
		loads = 0
		harness = NewHarness(mock,
			WithOutput(output),
			WithLoader(func(path string) ([]byte, error) {
				loads++
				return []byte("image-bytes"), nil
			}),
		)
	})

	When("every extracted field satisfies its expectation", func() {
		It("reports all checks as passed", func() {
			report := harness.Run(context.Background(), []Fixture{edekaFixture()})

			Expect(report.OK()).To(BeTrue())
			// 12 field expectations plus the tax-rate coverage check.
			Expect(report.Passed).To(Equal(13))
			Expect(report.Failed).To(BeZero())
			Expect(mock.calls).To(Equal(1))
			Expect(loads).To(Equal(1))
		})

		It("streams per-field lines", func() {
			harness.Run(context.Background(), []Fixture{edekaFixture()})

			Expect(output.String()).To(ContainSubstring("Testing: examples/ai_invoice_01.jpg"))
			Expect(output.String()).To(ContainSubstring("ok issuer.name"))
			Expect(output.String()).To(ContainSubstring("ok taxes.rates"))
		})
	})

	When("the receipt type is outside the acceptable set", func() {
		It("fails that check only", func() {
			mock.result.Receipt.Type = "invoice"

			report := harness.Run(context.Background(), []Fixture{edekaFixture()})

			Expect(report.OK()).To(BeFalse())
			Expect(report.Failed).To(Equal(1))
			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].Field).To(Equal("receipt.type"))
			Expect(output.String()).To(ContainSubstring("FAIL receipt.type"))
		})
	})

	When("an expected tax rate is uncovered", func() {
		It("fails the coverage check", func() {
			mock.result.Taxes = []extract.Tax{{Rate: 19, Amount: 6.65}}

			report := harness.Run(context.Background(), []Fixture{edekaFixture()})

			Expect(report.Failed).To(Equal(1))
			Expect(report.Failures[0].Field).To(Equal("taxes.rates"))
		})
	})

	When("extraction fails for a fixture", func() {
		It("counts one failure and aborts only that fixture's checks", func() {
			failing := &mockExtractor{err: &extract.UpstreamError{Reason: "empty response"}}
			passing := edekaFixture()

			harness = NewHarness(failing,
				WithOutput(output),
				WithLoader(func(string) ([]byte, error) { return []byte("x"), nil }),
			)
			report := harness.Run(context.Background(), []Fixture{passing, passing})

			Expect(report.Failed).To(Equal(2))
			Expect(report.Passed).To(BeZero())
			Expect(failing.calls).To(Equal(2))
			Expect(report.Failures[0].Field).To(Equal("extraction"))
			Expect(output.String()).To(ContainSubstring("FATAL"))
		})
	})

	When("a fixture document cannot be loaded", func() {
		It("never invokes the extractor for it", func() {
			harness = NewHarness(mock,
				WithOutput(output),
				WithLoader(func(path string) ([]byte, error) {
					return nil, errors.New("no such file")
				}),
			)
			report := harness.Run(context.Background(), []Fixture{edekaFixture()})

			Expect(report.Failed).To(Equal(1))
			Expect(mock.calls).To(BeZero())
		})
	})

	When("only some expectations are set", func() {
		It("skips unset fields entirely", func() {
			fixture := Fixture{
				Document:    "examples/partial.jpg",
				Description: "partial expectations",
				Expected:    Expected{IssuerName: "EDEKA"},
			}

			report := harness.Run(context.Background(), []Fixture{fixture})

			Expect(report.Passed).To(Equal(1))
			Expect(report.Failed).To(BeZero())
		})
	})

	When("the credential cannot be resolved", func() {
		var (
			tempDir string
			origDir string
			origEnv string
			hadEnv  bool
		)

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "receiptscan-harness-*")
			Expect(err).NotTo(HaveOccurred())
			origDir, err = os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tempDir)).To(Succeed())
			origEnv, hadEnv = os.LookupEnv("GEMINI_API_KEY")
			Expect(os.Unsetenv("GEMINI_API_KEY")).To(Succeed())
		})

		AfterEach(func() {
			Expect(os.Chdir(origDir)).To(Succeed())
			Expect(os.RemoveAll(tempDir)).To(Succeed())
			if hadEnv {
				Expect(os.Setenv("GEMINI_API_KEY", origEnv)).To(Succeed())
			}
		})

		It("fails before any extraction call is attempted", func() {
			key, err := extract.ResolveAPIKey("")
			Expect(errors.Is(err, extract.ErrCredentialMissing)).To(BeTrue())
			Expect(key).To(BeEmpty())

			// Mirrors the command wiring: the harness only runs once a
			// key resolves, so the extractor is never reached.
			if err == nil {
				harness.Run(context.Background(), Fixtures())
			}
			Expect(mock.calls).To(BeZero())
		})
	})
})
