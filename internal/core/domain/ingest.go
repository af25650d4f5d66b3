package domain

import "time"

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// Dir is the root directory to load documents from.
	Dir string

	// Reset clears the vector store before ingesting.
	Reset bool
}

// PassReport describes one file-type pass of an ingestion run.
type PassReport struct {
	FileType FileType

	// Documents is the number of documents the loader produced.
	Documents int

	// Chunks is the number of chunks after splitting.
	Chunks int

	// Existing is the number of chunks already present in the store.
	Existing int

	// Added is the number of chunks upserted by this pass.
	Added int

	// Err is set when the pass was skipped or aborted.
	Err error
}

// Skipped returns true if the pass did not index anything because of an error.
func (p PassReport) Skipped() bool {
	return p.Err != nil
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// RunID uniquely identifies the run.
	RunID string

	StartedAt  time.Time
	FinishedAt time.Time

	// Reset is true if the store was cleared first.
	Reset bool

	Passes []PassReport
}

// Added returns the total number of chunks added across passes.
func (r *IngestReport) Added() int {
	total := 0
	for _, p := range r.Passes {
		total += p.Added
	}
	return total
}

// FailedPasses returns the passes that reported an error.
func (r *IngestReport) FailedPasses() []PassReport {
	var failed []PassReport
	for _, p := range r.Passes {
		if p.Skipped() {
			failed = append(failed, p)
		}
	}
	return failed
}

// IngestRun is the persisted record of a finished ingestion run.
type IngestRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Passes     []PassSummary
}

// PassSummary is the persisted form of a PassReport.
type PassSummary struct {
	FileType  FileType `json:"file_type"`
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	Added     int      `json:"added"`
	Error     string   `json:"error,omitempty"`
}

// Summaries converts the report's passes to their persisted form.
func (r *IngestReport) Summaries() []PassSummary {
	out := make([]PassSummary, len(r.Passes))
	for i, p := range r.Passes {
		out[i] = PassSummary{
			FileType:  p.FileType,
			Documents: p.Documents,
			Chunks:    p.Chunks,
			Added:     p.Added,
		}
		if p.Err != nil {
			out[i].Error = p.Err.Error()
		}
	}
	return out
}
