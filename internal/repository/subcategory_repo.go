package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lessons-api/internal/domain"
)

// SubCategoryRepository define el contrato de persistencia para subcategorías.
type SubCategoryRepository interface {
	Create(ctx context.Context, sub domain.SubCategory) error
	List(ctx context.Context) ([]domain.SubCategory, error)
	ListByMainCategory(ctx context.Context, mainCategory string) ([]domain.SubCategory, error)
}

type PgSubCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubCategoryRepository(pool *pgxpool.Pool) *PgSubCategoryRepository {
	return &PgSubCategoryRepository{pool: pool}
}

func (r *PgSubCategoryRepository) Create(ctx context.Context, sub domain.SubCategory) error {
	const query = `
		INSERT INTO sub_categories (id, main_category, name)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, sub.ID, sub.MainCategory, sub.Name)
	return err
}

func (r *PgSubCategoryRepository) List(ctx context.Context) ([]domain.SubCategory, error) {
	const query = `
		SELECT id, main_category, name
		FROM sub_categories
		ORDER BY main_category, name
	`
	return r.queryMany(ctx, query)
}

func (r *PgSubCategoryRepository) ListByMainCategory(ctx context.Context, mainCategory string) ([]domain.SubCategory, error) {
	const query = `
		SELECT id, main_category, name
		FROM sub_categories
		WHERE main_category = $1
		ORDER BY name
	`
	return r.queryMany(ctx, query, mainCategory)
}

func (r *PgSubCategoryRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.SubCategory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.SubCategory
	for rows.Next() {
		var s domain.SubCategory
		if err := rows.Scan(&s.ID, &s.MainCategory, &s.Name); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
