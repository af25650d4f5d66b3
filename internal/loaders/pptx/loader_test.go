package pptx

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func slideXML(paragraphs ...string) string {
	s := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:sp><p:txBody>`
	for _, para := range paragraphs {
		s += `<a:p><a:r><a:t>` + para + `</a:t></a:r></a:p>`
	}
	return s + `</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
}

// writeTestPPTX creates a PPTX file whose members are written in the given order.
func writeTestPPTX(t *testing.T, parts [][2]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, part := range parts {
		fw, err := w.Create(part[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(part[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestNew(t *testing.T) {
	assert.Equal(t, domain.FileTypePPTX, New().FileType())
}

func TestLoad_SlidesInNumericOrder(t *testing.T) {
	path := writeTestPPTX(t, [][2]string{
		{"ppt/slides/slide10.xml", slideXML("Ten")},
		{"ppt/slides/slide2.xml", slideXML("Two")},
		{"ppt/slides/slide1.xml", slideXML("Agenda", "Pricing &amp; plans")},
		{"ppt/slides/_rels/slide1.xml.rels", "<Relationships/>"},
		{"ppt/slideLayouts/slideLayout1.xml", slideXML("Layout")},
	})

	docs, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Agenda\nPricing & plans", docs[0].Content)
	assert.Equal(t, "Two", docs[1].Content)
	assert.Equal(t, "Ten", docs[2].Content)
	for i, d := range docs {
		assert.Equal(t, i, d.Page)
		assert.Equal(t, domain.FileTypePPTX, d.FileType)
	}
	assert.Equal(t, 10, docs[2].Metadata["slide"])
}

func TestLoad_NoSlides(t *testing.T) {
	path := writeTestPPTX(t, [][2]string{{"[Content_Types].xml", "<Types/>"}})

	docs, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_MalformedSlide(t *testing.T) {
	path := writeTestPPTX(t, [][2]string{{"ppt/slides/slide1.xml", "<a:p><a:t>unclosed"}})

	_, err := New().Load(context.Background(), path)

	assert.Error(t, err)
}

func TestExtractText_SkipsEmptyParagraphs(t *testing.T) {
	text, err := extractText([]byte(slideXML("one", "", "  ", "two")))

	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", text)
}
