package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// LessonRepository define el contrato de persistencia para lecciones aprendidas.
type LessonRepository interface {
	Create(ctx context.Context, lesson domain.LessonLearned) error
	GetByID(ctx context.Context, id string) (domain.LessonLearned, error)
	List(ctx context.Context) ([]domain.LessonLearned, error)
	Update(ctx context.Context, lesson domain.LessonLearned) error
}

type PgLessonRepository struct {
	pool *pgxpool.Pool
}

func NewPgLessonRepository(pool *pgxpool.Pool) *PgLessonRepository {
	return &PgLessonRepository{pool: pool}
}

const lessonColumns = `
	id, project_name, date_captured, category_main, category_sub,
	description, root_cause, outcomes, impact, suggested_actions,
	tags, status, submitted_by, approved_by, created_at, updated_at
`

func (r *PgLessonRepository) Create(ctx context.Context, lesson domain.LessonLearned) error {
	const query = `
		INSERT INTO lessons_learned (` + lessonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	var approvedBy any
	if lesson.ApprovedBy != "" {
		approvedBy = lesson.ApprovedBy
	}
	_, err := r.pool.Exec(ctx, query,
		lesson.ID,
		lesson.ProjectName,
		lesson.DateCaptured,
		lesson.CategoryMain,
		lesson.CategorySub,
		lesson.Description,
		lesson.RootCause,
		lesson.Outcomes,
		lesson.Impact,
		lesson.SuggestedActions,
		lesson.Tags,
		lesson.Status,
		lesson.SubmittedBy,
		approvedBy,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)
	return err
}

func (r *PgLessonRepository) GetByID(ctx context.Context, id string) (domain.LessonLearned, error) {
	const query = `
		SELECT ` + lessonColumns + `
		FROM lessons_learned
		WHERE id = $1
	`
	return scanLesson(r.pool.QueryRow(ctx, query, id))
}

func (r *PgLessonRepository) List(ctx context.Context) ([]domain.LessonLearned, error) {
	const query = `
		SELECT ` + lessonColumns + `
		FROM lessons_learned
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []domain.LessonLearned
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

func (r *PgLessonRepository) Update(ctx context.Context, lesson domain.LessonLearned) error {
	const query = `
		UPDATE lessons_learned
		SET project_name = $2, date_captured = $3, category_main = $4,
			category_sub = $5, description = $6, root_cause = $7,
			outcomes = $8, impact = $9, suggested_actions = $10,
			tags = $11, status = $12, approved_by = $13, updated_at = $14
		WHERE id = $1
	`
	var approvedBy any
	if lesson.ApprovedBy != "" {
		approvedBy = lesson.ApprovedBy
	}
	_, err := r.pool.Exec(ctx, query,
		lesson.ID,
		lesson.ProjectName,
		lesson.DateCaptured,
		lesson.CategoryMain,
		lesson.CategorySub,
		lesson.Description,
		lesson.RootCause,
		lesson.Outcomes,
		lesson.Impact,
		lesson.SuggestedActions,
		lesson.Tags,
		lesson.Status,
		approvedBy,
		lesson.UpdatedAt,
	)
	return err
}

func scanLesson(row rowScanner) (domain.LessonLearned, error) {
	var (
		lesson     domain.LessonLearned
		approvedBy *string
	)
	err := row.Scan(
		&lesson.ID,
		&lesson.ProjectName,
		&lesson.DateCaptured,
		&lesson.CategoryMain,
		&lesson.CategorySub,
		&lesson.Description,
		&lesson.RootCause,
		&lesson.Outcomes,
		&lesson.Impact,
		&lesson.SuggestedActions,
		&lesson.Tags,
		&lesson.Status,
		&lesson.SubmittedBy,
		&approvedBy,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return domain.LessonLearned{}, err
	}
	if approvedBy != nil {
		lesson.ApprovedBy = *approvedBy
	}
	return lesson, nil
}
