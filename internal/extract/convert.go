package extract

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// isHEIC reports whether data carries an HEIC/HEIF ftyp box. iPhone photos
// arrive in this container and the backend does not accept it directly.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// heicToPNG re-encodes an HEIC/HEIF image as PNG.
func heicToPNG(data []byte) ([]byte, error) {
	img, err := heic.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding HEIC image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfToPNG renders the first page of a PDF as PNG. Receipts are almost
// always single page.
func pdfToPNG(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeDocument converts inputs the backend cannot ingest as-is. HEIC
// always becomes PNG; PDFs become a PNG of the first page only when
// rasterizePDF is set, otherwise the PDF bytes are uploaded natively.
func normalizeDocument(data []byte, mimeType string, rasterizePDF bool) ([]byte, string, error) {
	if isHEIC(data) {
		converted, err := heicToPNG(data)
		if err != nil {
			return nil, "", err
		}
		return converted, "image/png", nil
	}

	if rasterizePDF && mimeType == "application/pdf" {
		converted, err := pdfToPNG(data)
		if err != nil {
			return nil, "", err
		}
		return converted, "image/png", nil
	}

	return data, mimeType, nil
}
