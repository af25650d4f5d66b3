package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func writeMarkdown(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	assert.Equal(t, domain.FileTypeMD, New().FileType())
}

func TestLoad_FrontMatter(t *testing.T) {
	path := writeMarkdown(t, `---
title: Shipping FAQ
tags: [shipping, returns]
---
# Shipping

Orders over **$50** ship free.
`)

	docs, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	doc := docs[0]
	assert.Equal(t, 0, doc.Page)
	assert.Equal(t, domain.FileTypeMD, doc.FileType)
	assert.Equal(t, "Shipping FAQ", doc.Metadata["title"])
	assert.Equal(t, []any{"shipping", "returns"}, doc.Metadata["tags"])
	assert.Equal(t, "Shipping\n\nOrders over $50 ship free.", doc.Content)
}

func TestLoad_TitleFromHeading(t *testing.T) {
	path := writeMarkdown(t, "intro\n# Main Title\nbody")

	docs, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Main Title", docs[0].Metadata["title"])
}

func TestLoad_InvalidFrontMatter(t *testing.T) {
	path := writeMarkdown(t, "---\ntitle: [unclosed\n---\nbody")

	_, err := New().Load(context.Background(), path)

	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), "/non/existent.md")

	assert.Error(t, err)
}

func TestSplitFrontMatter(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		meta, body, err := splitFrontMatter([]byte("just text"))
		require.NoError(t, err)
		assert.Empty(t, meta)
		assert.Equal(t, "just text", body)
	})

	t.Run("unterminated block is body", func(t *testing.T) {
		meta, body, err := splitFrontMatter([]byte("---\nnot: closed\ntext"))
		require.NoError(t, err)
		assert.Empty(t, meta)
		assert.Equal(t, "---\nnot: closed\ntext", body)
	})

	t.Run("empty block", func(t *testing.T) {
		meta, body, err := splitFrontMatter([]byte("---\n---\nbody"))
		require.NoError(t, err)
		assert.NotNil(t, meta)
		assert.Equal(t, "body", body)
	})
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings", "## Section\ntext", "Section\ntext"},
		{"links keep text", "see [the docs](http://x.y)", "see the docs"},
		{"images removed", "a ![logo](logo.png) b", "a  b"},
		{"emphasis", "**bold** and *italic* and __strong__", "bold and italic and strong"},
		{"inline code keeps text", "run `make test` now", "run make test now"},
		{"code block removed", "before\n```go\nfmt.Println()\n```\nafter", "before\n\nafter"},
		{"lists", "- one\n* two\n1. three", "one\ntwo\nthree"},
		{"blockquote", "> quoted", "quoted"},
		{"rule", "above\n---\nbelow", "above\n\nbelow"},
		{"collapses blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"snake case survives", "use snake_case_names", "use snake_case_names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripMarkdown(tt.input))
		})
	}
}
