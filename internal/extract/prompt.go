package extract

// extractionPrompt is the instruction text sent alongside every document.
// All locale normalization happens model-side; there is no post-hoc
// normalization step.
const extractionPrompt = `Extract all information from this receipt/invoice image.

Rules:
- date: Convert to YYYY-MM-DD (e.g. "20/11/25" becomes 2025-11-20)
- card_last_4: Extract last 4 digits from masked card numbers like ****1234
- tax rate: Percentage as integer (19 not 0.19)
- currency: ISO 4217 code (e.g. EUR, USD, CHF)
- country: ISO 3166-1 alpha-2 code (e.g. DE, AT, US)`
