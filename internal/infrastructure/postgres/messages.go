package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/peerconnect/backend/internal/domain"
)

// MessageRepo is the PostgreSQL implementation of
// domain.MessageRepository.
type MessageRepo struct {
	pool *pgxpool.Pool
}

// NewMessageRepo creates a postgres MessageRepo.
func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// StartConversation upserts on the canonical pair key, so concurrent
// callers and either initiating order land on the same conversation row.
func (r *MessageRepo) StartConversation(ctx context.Context, senderID, recipientID int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin start conversation: %w", err)
	}
	defer tx.Rollback(ctx)

	// DO UPDATE instead of DO NOTHING so RETURNING also yields the
	// existing row's id on conflict.
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO conversations (pair_key)
		VALUES ($1)
		ON CONFLICT (pair_key) DO UPDATE SET pair_key = EXCLUDED.pair_key
		RETURNING id
	`, domain.PairKey(senderID, recipientID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert conversation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO conversation_participants (conversation_id, student_id)
		VALUES ($1, $2), ($1, $3)
		ON CONFLICT (conversation_id, student_id) DO NOTHING
	`, id, senderID, recipientID)
	if err != nil {
		return 0, fmt.Errorf("insert participants: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit start conversation: %w", err)
	}
	return id, nil
}

// ListConversations returns the student's conversations newest first,
// with the other participant's display fields attached.
func (r *MessageRepo) ListConversations(ctx context.Context, studentID int64) ([]domain.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.created_at,
		       s.stu_id, COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id
		JOIN student s ON s.stu_id = cp.student_id
		WHERE cp.student_id <> $1
		  AND c.id IN (
			SELECT conversation_id FROM conversation_participants WHERE student_id = $1
		  )
		ORDER BY c.created_at DESC, c.id DESC
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	convos := []domain.Conversation{}
	index := map[int64]int{}
	for rows.Next() {
		var c domain.Conversation
		var p domain.Author
		if err := rows.Scan(&c.ID, &c.CreatedAt, &p.ID, &p.FirstName, &p.LastName, &p.Avatar); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if i, ok := index[c.ID]; ok {
			convos[i].Participants = append(convos[i].Participants, p)
			continue
		}
		c.Participants = []domain.Author{p}
		index[c.ID] = len(convos)
		convos = append(convos, c)
	}
	return convos, rows.Err()
}

// IsParticipant reports membership in a conversation.
func (r *MessageRepo) IsParticipant(ctx context.Context, conversationID, studentID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = $1 AND student_id = $2
		)
	`, conversationID, studentID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("is participant: %w", err)
	}
	return ok, nil
}

// CreateMessage appends a message to a conversation.
func (r *MessageRepo) CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*domain.Message, error) {
	var m domain.Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender_id, content, created_at
	`, conversationID, senderID, content).Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &m, nil
}

// ListMessages returns a conversation's messages, oldest first.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.conversation_id, m.sender_id, m.content, m.created_at,
		       COALESCE(s.first_name, 'Unknown'), COALESCE(s.last_name, ''), s.avatar
		FROM messages m
		LEFT JOIN student s ON m.sender_id = s.stu_id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var sender domain.Author
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt,
			&sender.FirstName, &sender.LastName, &sender.Avatar); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		sender.ID = m.SenderID
		m.Sender = &sender
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
