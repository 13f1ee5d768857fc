package pdfextract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts plain text from PDF bytes. Returns an empty string and
// nil error when the PDF has no extractable text.
func ExtractText(blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", nil
	}
	readerAt := bytes.NewReader(blob)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(blob)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
