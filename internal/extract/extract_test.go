package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"graphdesk/internal/model"
)

func TestExtractMarkdownStripsFormatting(t *testing.T) {
	got := Extract([]byte("# Title **bold** `code`"), model.DocTypeMarkdown)
	assert.Equal(t, " Title bold code", got)
}

func TestExtractCodeStripsComments(t *testing.T) {
	src := "package main\n\n// greet prints a greeting\nfunc main() {\n\t/* block\n\tcomment */\n\tprintln(\"hi\") // inline\n}\n"
	got := Extract([]byte(src), model.DocTypeCode)

	assert.NotContains(t, got, "greet prints")
	assert.NotContains(t, got, "block")
	assert.NotContains(t, got, "inline")
	assert.Contains(t, got, "package main")
	assert.Contains(t, got, "println(\"hi\")")
}

func TestExtractTextPassthrough(t *testing.T) {
	got := Extract([]byte("plain content"), model.DocTypeText)
	assert.Equal(t, "plain content", got)
}

func TestExtractUnparseableFormatsFallBackToRaw(t *testing.T) {
	blob := []byte("not really a pdf")
	assert.Equal(t, string(blob), Extract(blob, model.DocTypePDF))

	blob = []byte("not really a workbook")
	assert.Equal(t, string(blob), Extract(blob, model.DocTypeExcel))
}

func TestExtractUnknownTypePassthrough(t *testing.T) {
	got := Extract([]byte("raw bytes"), "presentation")
	assert.Equal(t, "raw bytes", got)
}
