package domain

// MessageType tags a Message as coming from the user or the model.
type MessageType string

// Message types as persisted in the history table.
const (
	MessageHuman MessageType = "human"
	MessageAI    MessageType = "ai"
)

// IsValid returns true if the message type is recognised.
func (t MessageType) IsValid() bool {
	return t == MessageHuman || t == MessageAI
}

// Message is one entry of a session transcript.
type Message struct {
	// Type is human or ai.
	Type MessageType

	// Content is the message text.
	Content string

	// Sources lists the ChunkIDs an ai answer was grounded on, in
	// retrieval rank order. Entries may be nil when a retrieved chunk
	// carried no id. Always nil for human messages.
	Sources []*string
}

// HumanMessage builds a human message.
func HumanMessage(content string) Message {
	return Message{Type: MessageHuman, Content: content}
}

// AIMessage builds an ai message with the given sources.
func AIMessage(content string, sources []*string) Message {
	return Message{Type: MessageAI, Content: content, Sources: sources}
}

// SourceRefs converts ChunkIDs to a source list. Empty ids become nil entries.
func SourceRefs(ids []string) []*string {
	refs := make([]*string, len(ids))
	for i := range ids {
		if ids[i] == "" {
			continue
		}
		id := ids[i]
		refs[i] = &id
	}
	return refs
}

// SourceString renders a source entry, using "<none>" for nil.
func SourceString(ref *string) string {
	if ref == nil {
		return "<none>"
	}
	return *ref
}

// Answer is the result of one conversational turn.
type Answer struct {
	// SessionID is the session the turn was recorded in.
	SessionID string

	// Question is the user's question as asked.
	Question string

	// SearchQuery is the standalone query used for retrieval.
	SearchQuery string

	// Content is the generated answer.
	Content string

	// Sources are the retrieved ChunkIDs in rank order.
	Sources []*string

	// Context holds the retrieved chunks in rank order.
	Context []ScoredChunk
}

// Summary is the result of summarising the document set.
type Summary struct {
	SessionID string
	Content   string

	// Chunks is the number of chunks fed to the map step.
	Chunks int
}
