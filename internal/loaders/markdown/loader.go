// Package markdown loads Markdown files as simplified plain text.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles Markdown documents.
type Loader struct{}

// New creates a new Markdown loader.
func New() *Loader {
	return &Loader{}
}

// FileType returns ".md".
func (l *Loader) FileType() domain.FileType {
	return domain.FileTypeMD
}

// Load reads the file, moves YAML front matter into metadata and strips
// markdown formatting from the body.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	metadata, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := metadata["title"]; !ok {
		if title := extractTitle(body); title != "" {
			metadata["title"] = title
		}
	}

	return []domain.Document{{
		Source:   path,
		FileType: domain.FileTypeMD,
		Content:  stripMarkdown(body),
		Metadata: metadata,
	}}, nil
}

var frontMatterDelim = []byte("---")

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(raw []byte) (map[string]any, string, error) {
	metadata := map[string]any{}
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))

	first, rest, ok := bytes.Cut(raw, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimSpace(first), frontMatterDelim) {
		return metadata, string(raw), nil
	}

	var block [][]byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), frontMatterDelim) {
			if err := yaml.Unmarshal(bytes.Join(block, []byte("\n")), &metadata); err != nil {
				return nil, "", fmt.Errorf("parsing front matter: %w", err)
			}
			if metadata == nil {
				metadata = map[string]any{}
			}
			return metadata, string(rest), nil
		}
		block = append(block, line)
	}

	// No closing delimiter: not front matter.
	return map[string]any{}, string(raw), nil
}

// extractTitle returns the first H1 heading.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	codeBlockRe    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe   = regexp.MustCompile("`([^`]+)`")
	imageRe        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe     = regexp.MustCompile(`(\*\*|__|\*)([^*_\n]+)(\*\*|__|\*)`)
	blockquoteRe   = regexp.MustCompile(`(?m)^>\s*`)
	ruleRe         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkerRe   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedListRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	newlinesRe     = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting. Fenced code blocks
// are dropped; inline code keeps its text.
func stripMarkdown(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "$1")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")
	content = ruleRe.ReplaceAllString(content, "")
	content = emphasisRe.ReplaceAllString(content, "$2")
	content = blockquoteRe.ReplaceAllString(content, "")
	content = listMarkerRe.ReplaceAllString(content, "")
	content = numberedListRe.ReplaceAllString(content, "")
	content = newlinesRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
