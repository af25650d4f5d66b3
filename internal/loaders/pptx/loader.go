// Package pptx loads PowerPoint files one document per slide.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles PPTX documents.
type Loader struct{}

// New creates a new PPTX loader.
func New() *Loader {
	return &Loader{}
}

// FileType returns ".pptx".
func (l *Loader) FileType() domain.FileType {
	return domain.FileTypePPTX
}

type slidePart struct {
	number int
	file   *zip.File
}

// Load extracts the text of each slide in slide-number order.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening pptx: %w", err)
	}
	defer reader.Close()

	slides := slideParts(reader.File)
	docs := make([]domain.Document, 0, len(slides))
	for i, slide := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := readSlide(slide.file)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", slide.number, err)
		}
		docs = append(docs, domain.Document{
			Source:   path,
			Page:     i,
			FileType: domain.FileTypePPTX,
			Content:  text,
			Metadata: map[string]any{"slide": slide.number},
		})
	}
	return docs, nil
}

// slideParts returns ppt/slides/slideN.xml members ordered by N.
func slideParts(files []*zip.File) []slidePart {
	var slides []slidePart
	for _, f := range files {
		name, ok := strings.CutPrefix(f.Name, "ppt/slides/slide")
		if !ok {
			continue
		}
		name, ok = strings.CutSuffix(name, ".xml")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		slides = append(slides, slidePart{number: n, file: f})
	}
	slices.SortFunc(slides, func(a, b slidePart) int { return a.number - b.number })
	return slides
}

func readSlide(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return extractText(data)
}

// extractText collects <a:t> runs, one line per <a:p> paragraph.
func extractText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		lines  []string
		line   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing slide xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if s := strings.TrimSpace(line.String()); s != "" {
					lines = append(lines, s)
				}
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
