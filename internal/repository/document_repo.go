package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// DocumentRepository define el contrato de persistencia para documentos adjuntos.
type DocumentRepository interface {
	Create(ctx context.Context, doc domain.Document) error
	GetByID(ctx context.Context, id string) (domain.Document, error)
	ListByLesson(ctx context.Context, lessonID string) ([]domain.Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PgDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPgDocumentRepository(pool *pgxpool.Pool) *PgDocumentRepository {
	return &PgDocumentRepository{pool: pool}
}

func (r *PgDocumentRepository) Create(ctx context.Context, doc domain.Document) error {
	const query = `
		INSERT INTO documents (id, lesson_id, filename, file_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.LessonID,
		doc.Filename,
		doc.FilePath,
		doc.UploadedAt,
	)
	return err
}

func (r *PgDocumentRepository) GetByID(ctx context.Context, id string) (domain.Document, error) {
	const query = `
		SELECT id, lesson_id, filename, file_path, uploaded_at
		FROM documents
		WHERE id = $1
	`
	var d domain.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.LessonID, &d.Filename, &d.FilePath, &d.UploadedAt)
	if err != nil {
		return domain.Document{}, err
	}
	return d, nil
}

func (r *PgDocumentRepository) ListByLesson(ctx context.Context, lessonID string) ([]domain.Document, error) {
	const query = `
		SELECT id, lesson_id, filename, file_path, uploaded_at
		FROM documents
		WHERE lesson_id = $1
		ORDER BY uploaded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.LessonID, &d.Filename, &d.FilePath, &d.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Delete devuelve false si el documento no existía.
func (r *PgDocumentRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM documents WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
