package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"graphdesk/internal/model"
	"graphdesk/internal/pkg/pdfextract"
)

var (
	markdownMarks = strings.NewReplacer("#", "", "*", "", "_", "", "~", "", "`", "")
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment   = regexp.MustCompile(`//[^\n]*`)
)

// Extract normalizes a raw blob plus its declared document type into plain
// text. It never fails: formats that cannot be parsed fall back to treating
// the raw bytes as UTF-8 text.
func Extract(blob []byte, docType string) string {
	switch docType {
	case model.DocTypePDF:
		return extractPDF(blob)
	case model.DocTypeExcel:
		return extractExcel(blob)
	case model.DocTypeMarkdown:
		return markdownMarks.Replace(string(blob))
	case model.DocTypeCode:
		return stripComments(string(blob))
	default:
		return string(blob)
	}
}

func extractPDF(blob []byte) string {
	text, err := pdfextract.ExtractText(blob)
	if err != nil || strings.TrimSpace(text) == "" {
		return string(blob)
	}
	return text
}

// extractExcel flattens every sheet into pipe-separated rows, one line per
// row. Non-xlsx payloads fall back to raw text.
func extractExcel(blob []byte) string {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return string(blob)
	}
	defer f.Close()

	var out strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			out.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
	}
	if out.Len() == 0 {
		return string(blob)
	}
	return out.String()
}

func stripComments(src string) string {
	src = blockComment.ReplaceAllString(src, "")
	return lineComment.ReplaceAllString(src, "")
}
