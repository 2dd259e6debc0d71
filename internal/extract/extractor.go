package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Extractor turns raw document bytes into a structured Result.
type Extractor interface {
	// Extract analyzes one document. The filename is only used to resolve
	// the MIME type from its extension.
	Extract(ctx context.Context, document []byte, filename string) (*Result, error)
	// Close releases the extractor's resources.
	Close() error
}

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second
)

// Gemini implements Extractor against the Gemini vision API using
// schema-constrained structured decoding.
type Gemini struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	timeout      time.Duration
	rasterizePDF bool
}

// Option configures a Gemini extractor.
type Option func(*Gemini)

// WithTimeout bounds each inference call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(g *Gemini) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithPDFRasterization renders the first PDF page to PNG locally instead of
// uploading the PDF bytes.
func WithPDFRasterization() Option {
	return func(g *Gemini) {
		g.rasterizePDF = true
	}
}

// NewGemini creates a new Gemini extractor. An empty API key fails with
// ErrCredentialMissing before any client is built.
func NewGemini(apiKey, modelName string, opts ...Option) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = responseSchema()

	g := &Gemini{
		client:  client,
		model:   model,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Extract issues exactly one synchronous inference call for the document and
// decodes the structured response. The call is bounded by the configured
// timeout; a timeout surfaces as an UpstreamError.
func (g *Gemini) Extract(ctx context.Context, document []byte, filename string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	mimeType := MIMEForFilename(filename)
	data, mimeType, err := normalizeDocument(document, mimeType, g.rasterizePDF)
	if err != nil {
		return nil, fmt.Errorf("preparing %s: %w", filename, err)
	}

	parts := []genai.Part{
		genai.Text(extractionPrompt),
		genai.Blob{MIMEType: mimeType, Data: data},
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, &UpstreamError{Reason: "generating content", Err: err}
	}

	text := firstText(resp)
	if text == "" {
		return nil, &UpstreamError{Reason: "empty response"}
	}

	return decodeResult(text)
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// decodeResult parses the structured payload the backend embedded as text.
// A field outside the schema means the backend violated the contract and is
// fatal; no partial result is synthesized.
func decodeResult(text string) (*Result, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()

	var res Result
	if err := dec.Decode(&res); err != nil {
		return nil, &UpstreamError{Reason: "decoding structured response", Err: err}
	}
	return &res, nil
}

// firstText returns the first text part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text)
		}
	}
	return ""
}
