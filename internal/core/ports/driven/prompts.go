package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the
	// built-in default or an error when there is none.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptQueryReform turns the latest question into a standalone search query.
	// Sent as the final user turn after the history and question; no placeholders.
	PromptQueryReform = "query_reform"

	// PromptAnswerSystem is the system prompt for answer generation.
	// The template expects one %s placeholder for the retrieved context.
	PromptAnswerSystem = "answer_system"

	// PromptSummariseMap extracts the main themes of one chunk.
	// The template expects one %s placeholder for the chunk text.
	PromptSummariseMap = "summarise_map"

	// PromptSummariseReduce consolidates intermediate summaries.
	// The template expects one %s placeholder for the joined summaries.
	PromptSummariseReduce = "summarise_reduce"
)
