package validate

// Fixture pairs a known document with the values a correct extraction must
// produce for it.
type Fixture struct {
	Document    string
	Description string
	Expected    Expected
}

// Expected holds per-field expectations. Empty strings, nil pointers, and
// nil slices make no claim about their field and are skipped entirely.
// ReceiptType is a single string, or a []string of acceptable values for
// documents whose classification is genuinely ambiguous.
type Expected struct {
	IssuerName     string
	AddressCity    string
	AddressCountry string
	VATID          string
	TaxNumber      string
	ReceiptNumber  string
	ReceiptDate    string
	ReceiptType    any
	AmountsGross   *float64
	AmountsNet     *float64
	Currency       string
	PaymentMethod  string
	CardLast4      string
	TaxRates       []float64
}

// Fixtures returns the embedded known-good corpus. Document paths are
// relative to the working directory.
func Fixtures() []Fixture {
	return []Fixture{
		{
			Document:    "examples/ai_invoice_01.jpg",
			Description: "EDEKA supermarket receipt",
			Expected: Expected{
				IssuerName:     "EDEKA Müller",
				AddressCity:    "München",
				AddressCountry: "DE",
				VATID:          "DE123456789",
				ReceiptNumber:  "0847",
				ReceiptDate:    "2025-12-03",
				// Supermarket slips read as either a cash register slip
				// or a generic receipt.
				ReceiptType:   []string{"cash_register", "receipt"},
				AmountsGross:  f64(50.00),
				AmountsNet:    f64(41.93),
				Currency:      "EUR",
				PaymentMethod: "card",
				CardLast4:     "1234",
				TaxRates:      []float64{19, 7},
			},
		},
		{
			Document:    "examples/ai_receipt_02.jpg",
			Description: "TechShop Berlin invoice",
			Expected: Expected{
				IssuerName:     "TechShop Berlin GmbH",
				AddressCity:    "Berlin",
				AddressCountry: "DE",
				VATID:          "DE298456712",
				TaxNumber:      "30/123/45678",
				ReceiptNumber:  "RE-2025-004521",
				ReceiptDate:    "2025-12-03",
				ReceiptType:    "invoice",
				AmountsGross:   f64(100.00),
				AmountsNet:     f64(84.03),
				Currency:       "EUR",
				PaymentMethod:  "card",
				CardLast4:      "4829",
				TaxRates:       []float64{19},
			},
		},
	}
}

func f64(v float64) *float64 { return &v }
