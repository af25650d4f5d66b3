package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageType_IsValid(t *testing.T) {
	assert.True(t, MessageHuman.IsValid())
	assert.True(t, MessageAI.IsValid())
	assert.False(t, MessageType("system").IsValid())
}

func TestSourceRefs(t *testing.T) {
	refs := SourceRefs([]string{"a:0:0", "", "b:1:0"})
	require.Len(t, refs, 3)
	assert.Equal(t, "a:0:0", *refs[0])
	assert.Nil(t, refs[1])
	assert.Equal(t, "b:1:0", *refs[2])
}

func TestSourceString(t *testing.T) {
	id := "x:0:0"
	assert.Equal(t, "x:0:0", SourceString(&id))
	assert.Equal(t, "<none>", SourceString(nil))
}

func TestIngestReport_Totals(t *testing.T) {
	report := &IngestReport{
		Passes: []PassReport{
			{FileType: FileTypePDF, Added: 3},
			{FileType: FileTypeDOCX, Err: ErrLoad},
			{FileType: FileTypeMD, Added: 2},
		},
	}

	assert.Equal(t, 5, report.Added())
	failed := report.FailedPasses()
	require.Len(t, failed, 1)
	assert.Equal(t, FileTypeDOCX, failed[0].FileType)

	summaries := report.Summaries()
	require.Len(t, summaries, 3)
	assert.Equal(t, ErrLoad.Error(), summaries[1].Error)
	assert.Empty(t, summaries[0].Error)
}
