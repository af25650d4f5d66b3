package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatChunkID(t *testing.T) {
	assert.Equal(t, "data/monopoly.pdf:6:2", FormatChunkID("data/monopoly.pdf", 6, 2))
	assert.Equal(t, "a.md:0:0", FormatChunkID("a.md", 0, 0))
}

func TestParseChunkID(t *testing.T) {
	t.Run("round trips formatted id", func(t *testing.T) {
		source, page, index, err := ParseChunkID("data/monopoly.pdf:6:2")
		require.NoError(t, err)
		assert.Equal(t, "data/monopoly.pdf", source)
		assert.Equal(t, 6, page)
		assert.Equal(t, 2, index)
	})

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"no colon", "file.pdf"},
		{"missing index", "file.pdf:1"},
		{"empty source", ":1:2"},
		{"non numeric page", "file.pdf:x:2"},
		{"non numeric index", "file.pdf:1:y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseChunkID(tt.id)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestSourceOfChunkID(t *testing.T) {
	assert.Equal(t, "data/a.pdf", SourceOfChunkID("data/a.pdf:3:1"))
	assert.Equal(t, "plain", SourceOfChunkID("plain"))
}
