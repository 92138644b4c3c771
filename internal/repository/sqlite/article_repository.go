package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"writers-api/internal/domain"
	"writers-api/internal/repository"
)

const articleColumns = `id, user_id, created_by, article, created_at, updated_at`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (int64, error) {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO articles (user_id, created_by, article, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		article.UserID,
		article.CreatedBy,
		article.Body,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("article last insert id: %w", err)
	}
	article.ID = id
	return id, nil
}

// UpdateBody never touches created_by.
func (r *ArticleRepository) UpdateBody(ctx context.Context, id int64, body string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE articles
SET article = ?, updated_at = ?
WHERE id = ?`,
		body,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("update article: %w", err)
	}
	return rowsAffected(res, "update article")
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete article: %w", err)
	}
	return rowsAffected(res, "delete article")
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	return collectArticles(rows)
}

func (r *ArticleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+articleColumns+`
FROM articles
WHERE user_id = ?
ORDER BY id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query articles by user: %w", err)
	}
	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]domain.Article, error) {
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.UserID, &a.CreatedBy, &a.Body, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows: %w", op, err)
	}
	return n, nil
}
