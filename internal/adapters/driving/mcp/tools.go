package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session to continue; a new session is started when empty"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	SessionID   string   `json:"session_id"`
	Answer      string   `json:"answer"`
	SearchQuery string   `json:"search_query"`
	Sources     []string `json:"sources"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct{}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
}

// NewSessionInput is the input schema for the new_session tool.
type NewSessionInput struct{}

// NewSessionOutput is the output schema for the new_session tool.
type NewSessionOutput struct {
	SessionID string `json:"session_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents, keeping conversation context per session",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List the document paths in the vector store",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "new_session",
		Description: "Start a new chat session and return its id",
	}, s.handleNewSession)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		id, err := s.ports.Sessions.NewSession(ctx)
		if err != nil {
			return nil, AskOutput{}, err
		}
		sessionID = id
	}

	answer, err := s.ports.Chat.Ask(ctx, sessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		SessionID:   answer.SessionID,
		Answer:      answer.Content,
		SearchQuery: answer.SearchQuery,
		Sources:     make([]string, len(answer.Sources)),
	}
	for i, ref := range answer.Sources {
		output.Sources[i] = domain.SourceString(ref)
	}

	return nil, output, nil
}

func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	if s.ports.Ingest == nil {
		return nil, ListSourcesOutput{Sources: []string{}}, nil
	}

	sources, err := s.ports.Ingest.Sources(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}
	if sources == nil {
		sources = []string{}
	}
	return nil, ListSourcesOutput{Sources: sources, Count: len(sources)}, nil
}

func (s *Server) handleNewSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NewSessionInput,
) (*mcp.CallToolResult, NewSessionOutput, error) {
	id, err := s.ports.Sessions.NewSession(ctx)
	if err != nil {
		return nil, NewSessionOutput{}, err
	}
	return nil, NewSessionOutput{SessionID: id}, nil
}
