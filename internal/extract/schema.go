package extract

import "github.com/google/generative-ai-go/genai"

// SchemaVersion identifies the extraction output shape. Bump it whenever the
// response schema changes in a way consumers can observe.
const SchemaVersion = "1"

// Result is the structured record extracted from a single document. Nullable
// fields are pointers and always serialize as null rather than being omitted,
// so consumers may assume every field is present.
type Result struct {
	Receipt Receipt `json:"receipt"`
	Amounts Amounts `json:"amounts"`
	Taxes   []Tax   `json:"taxes"`
	Issuer  Issuer  `json:"issuer"`
	Payment Payment `json:"payment"`
	RawText string  `json:"raw_text"`
}

// Receipt identifies the document itself.
type Receipt struct {
	Date   string  `json:"date"` // ISO 8601 calendar date
	Number *string `json:"number"`
	Type   string  `json:"type"` // invoice, receipt, cash_register or credit_note
}

// Amounts holds the document totals in major currency units.
type Amounts struct {
	Gross    float64  `json:"gross"`
	Net      *float64 `json:"net"`
	Currency string   `json:"currency"` // ISO 4217
}

// Tax is one tax line. Rate is an integer percentage (19, not 0.19), kept as
// float64 because the backend emits JSON numbers.
type Tax struct {
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Issuer describes the party that issued the document.
type Issuer struct {
	Name      string  `json:"name"`
	Address   Address `json:"address"`
	VATID     *string `json:"vat_id"`
	TaxNumber *string `json:"tax_number"`
}

// Address is the issuer's postal address.
type Address struct {
	Street     *string `json:"street"`
	PostalCode *string `json:"postal_code"`
	City       *string `json:"city"`
	Country    string  `json:"country"` // ISO 3166-1 alpha-2
}

// Payment describes how the document was settled.
type Payment struct {
	Method    string  `json:"method"` // card, cash, transfer, paypal or unknown
	CardLast4 *string `json:"card_last_4"`
}

// responseSchema mirrors Result for the backend's constrained decoding. The
// struct definitions above and this schema must agree field for field.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"receipt": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":   {Type: genai.TypeString, Description: "Date in ISO format YYYY-MM-DD"},
					"number": {Type: genai.TypeString, Nullable: true},
					"type":   {Type: genai.TypeString, Enum: []string{"invoice", "receipt", "cash_register", "credit_note"}},
				},
			},
			"amounts": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"gross":    {Type: genai.TypeNumber},
					"net":      {Type: genai.TypeNumber, Nullable: true},
					"currency": {Type: genai.TypeString, Description: "ISO 4217 code (EUR, USD, PEN, CHF)"},
				},
			},
			"taxes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"rate":   {Type: genai.TypeNumber, Description: "Tax rate as percentage (e.g. 19 not 0.19)"},
						"amount": {Type: genai.TypeNumber},
					},
				},
			},
			"issuer": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString},
					"address": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"street":      {Type: genai.TypeString, Nullable: true},
							"postal_code": {Type: genai.TypeString, Nullable: true},
							"city":        {Type: genai.TypeString, Nullable: true},
							"country":     {Type: genai.TypeString, Description: "ISO 3166-1 alpha-2 code (DE, AT, US, PE)"},
						},
					},
					"vat_id":     {Type: genai.TypeString, Nullable: true},
					"tax_number": {Type: genai.TypeString, Nullable: true},
				},
			},
			"payment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"method":      {Type: genai.TypeString, Enum: []string{"card", "cash", "transfer", "paypal", "unknown"}},
					"card_last_4": {Type: genai.TypeString, Nullable: true},
				},
			},
			"raw_text": {Type: genai.TypeString, Description: "Complete OCR text"},
		},
	}
}
