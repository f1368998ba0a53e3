package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// AuditLogRepository define el contrato de persistencia para el audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, log domain.AuditLog) error
	List(ctx context.Context) ([]domain.AuditLog, error)
	ListByLesson(ctx context.Context, lessonID string) ([]domain.AuditLog, error)
}

type PgAuditLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgAuditLogRepository(pool *pgxpool.Pool) *PgAuditLogRepository {
	return &PgAuditLogRepository{pool: pool}
}

func (r *PgAuditLogRepository) Create(ctx context.Context, log domain.AuditLog) error {
	const query = `
		INSERT INTO audit_logs (id, lesson_id, action, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.LessonID,
		log.Action,
		log.PerformedBy,
		log.CreatedAt,
	)
	return err
}

func (r *PgAuditLogRepository) List(ctx context.Context) ([]domain.AuditLog, error) {
	const query = `
		SELECT id, lesson_id, action, performed_by, created_at
		FROM audit_logs
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query)
}

func (r *PgAuditLogRepository) ListByLesson(ctx context.Context, lessonID string) ([]domain.AuditLog, error) {
	const query = `
		SELECT id, lesson_id, action, performed_by, created_at
		FROM audit_logs
		WHERE lesson_id = $1
		ORDER BY created_at ASC
	`
	return r.queryMany(ctx, query, lessonID)
}

func (r *PgAuditLogRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(&l.ID, &l.LessonID, &l.Action, &l.PerformedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
