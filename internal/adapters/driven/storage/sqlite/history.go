package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore over the history table.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// storedMessage is the JSON shape of history.message.
type storedMessage struct {
	Type domain.MessageType `json:"type"`
	Data storedMessageData  `json:"data"`
}

type storedMessageData struct {
	Content string    `json:"content"`
	Sources []*string `json:"sources,omitempty"`
}

// NextSessionID reserves one more than the highest session id found in
// history or already reserved.
func (s *historyStore) NextSessionID(ctx context.Context) (string, error) {
	s.store.historyMu.Lock()
	defer s.store.historyMu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var highest int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(n), 0) FROM (
			SELECT CAST(session_id AS INTEGER) AS n FROM history
			WHERE session_id <> '' AND session_id NOT GLOB '*[^0-9]*'
			UNION ALL
			SELECT id FROM sessions
		)
	`).Scan(&highest)
	if err != nil {
		return "", fmt.Errorf("querying max session id: %w", err)
	}

	next := highest + 1
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (id, created_at) VALUES (?, ?)", next, time.Now().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("reserving session %d: %w", next, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing session reservation: %w", err)
	}
	return strconv.FormatInt(next, 10), nil
}

// Append adds a message and returns its row id.
func (s *historyStore) Append(ctx context.Context, sessionID string, msg domain.Message) (int64, error) {
	payload, err := encodeMessage(msg)
	if err != nil {
		return 0, err
	}

	s.store.historyMu.Lock()
	defer s.store.historyMu.Unlock()

	res, err := s.store.db.ExecContext(ctx,
		"INSERT INTO history (session_id, message) VALUES (?, ?)", sessionID, payload)
	if err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}
	return res.LastInsertId()
}

// AppendTurn inserts a human message and its answer in one transaction.
func (s *historyStore) AppendTurn(ctx context.Context, sessionID string, human, ai domain.Message) error {
	humanJSON, err := encodeMessage(human)
	if err != nil {
		return err
	}
	aiJSON, err := encodeMessage(ai)
	if err != nil {
		return err
	}

	s.store.historyMu.Lock()
	defer s.store.historyMu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, payload := range []string{humanJSON, aiJSON} {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO history (session_id, message) VALUES (?, ?)", sessionID, payload,
		); err != nil {
			return fmt.Errorf("inserting message: %w", err)
		}
	}
	return tx.Commit()
}

// AttachSources updates the sources of the session's last message if it is an ai message.
func (s *historyStore) AttachSources(ctx context.Context, sessionID string, sources []*string) error {
	s.store.historyMu.Lock()
	defer s.store.historyMu.Unlock()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var (
		id      int64
		payload string
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, message FROM history WHERE session_id = ? ORDER BY id DESC LIMIT 1", sessionID,
	).Scan(&id, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("querying last message: %w", err)
	}

	msg, err := decodeMessage(payload)
	if err != nil {
		return err
	}
	if msg.Type != domain.MessageAI {
		return nil
	}

	msg.Sources = sources
	updated, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE history SET message = ? WHERE id = ?", updated, id); err != nil {
		return fmt.Errorf("updating message %d: %w", id, err)
	}
	return tx.Commit()
}

// Messages returns a session transcript in insertion order.
func (s *historyStore) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT message FROM history WHERE session_id = ? ORDER BY id", sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg, err := decodeMessage(payload)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// LoadAll returns every session transcript keyed by session id.
func (s *historyStore) LoadAll(ctx context.Context) (map[string][]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT session_id, message FROM history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	sessions := make(map[string][]domain.Message)
	for rows.Next() {
		var sessionID, payload string
		if err := rows.Scan(&sessionID, &payload); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		msg, err := decodeMessage(payload)
		if err != nil {
			return nil, err
		}
		sessions[sessionID] = append(sessions[sessionID], msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return sessions, nil
}

func encodeMessage(msg domain.Message) (string, error) {
	if !msg.Type.IsValid() {
		return "", fmt.Errorf("%w: message type %q", domain.ErrInvalidInput, msg.Type)
	}
	stored := storedMessage{
		Type: msg.Type,
		Data: storedMessageData{Content: msg.Content},
	}
	if msg.Type == domain.MessageAI {
		stored.Data.Sources = msg.Sources
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshalling message: %w", err)
	}
	return string(data), nil
}

// decodeMessage parses a stored message. ai messages without sources get an empty list.
func decodeMessage(payload string) (domain.Message, error) {
	var stored storedMessage
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return domain.Message{}, fmt.Errorf("unmarshalling message: %w", err)
	}
	msg := domain.Message{Type: stored.Type, Content: stored.Data.Content}
	if stored.Type == domain.MessageAI {
		msg.Sources = stored.Data.Sources
		if msg.Sources == nil {
			msg.Sources = []*string{}
		}
	}
	return msg, nil
}
