package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes directos.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListForUser(ctx context.Context, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, id string) (domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SenderID,
		message.ReceiverID,
		message.Content,
		message.IsRead,
		message.CreatedAt,
	)
	return err
}

// ListForUser lista el inbox del usuario, más recientes primero.
func (r *PgMessageRepository) ListForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	const query = `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE receiver_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead marca el mensaje como leído y devuelve la fila actualizada.
// Devuelve pgx.ErrNoRows si el mensaje no existe.
func (r *PgMessageRepository) MarkRead(ctx context.Context, id string) (domain.Message, error) {
	const query = `
		UPDATE messages
		SET is_read = TRUE
		WHERE id = $1
		RETURNING id, sender_id, receiver_id, content, is_read, created_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Content,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}
