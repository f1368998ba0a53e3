package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// ProjectRepository define el contrato de persistencia para proyectos.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, id string) (domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListByAdmin(ctx context.Context, adminID string) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

func (r *PgProjectRepository) Create(ctx context.Context, project domain.Project) error {
	const query = `
		INSERT INTO projects (id, title, description, admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.AdminID,
		project.CreatedAt,
	)
	return err
}

func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (domain.Project, error) {
	const query = `
		SELECT id, title, description, admin_id, created_at
		FROM projects
		WHERE id = $1
	`
	var p domain.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.AdminID, &p.CreatedAt)
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *PgProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const query = `
		SELECT id, title, description, admin_id, created_at
		FROM projects
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query)
}

func (r *PgProjectRepository) ListByAdmin(ctx context.Context, adminID string) ([]domain.Project, error) {
	const query = `
		SELECT id, title, description, admin_id, created_at
		FROM projects
		WHERE admin_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, adminID)
}

func (r *PgProjectRepository) Update(ctx context.Context, project domain.Project) error {
	const query = `
		UPDATE projects
		SET title = $2, description = $3
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, project.ID, project.Title, project.Description)
	return err
}

// Delete devuelve false si el proyecto no existía.
func (r *PgProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM projects WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgProjectRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.AdminID, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
