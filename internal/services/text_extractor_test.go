package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := NewTextExtractor().ExtractText("cv.TXT", []byte("  Jane Doe \n\n\n Go, SQL  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo, SQL", text)
}

func TestExtractTextUnsupportedType(t *testing.T) {
	_, err := NewTextExtractor().ExtractText("cv.rtf", []byte("{\\rtf1}"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestExtractTextCorruptDocuments(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.ExtractText("cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)

	_, err = extractor.ExtractText("cv.docx", []byte("not a zip"))
	assert.Error(t, err)
}

func TestDocxParagraphs(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t></w:r></w:p>
    <w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>
    <w:p><w:pPr><w:jc w:val="center"/></w:pPr></w:p>
  </w:body>
</w:document>`

	text, err := docxParagraphs(body)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo\nLine one\nLine two\n", text)
	assert.Equal(t, "Jane Doe\nSkills:\tGo\nLine one\nLine two", CleanText(text))
}

func TestDocxParagraphsRejectsBrokenXML(t *testing.T) {
	_, err := docxParagraphs(`<w:document><w:body><w:p>`)
	assert.Error(t, err)
}
