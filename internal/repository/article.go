package repository

import (
	"context"

	"writers-api/internal/domain"
)

// ArticleRepository exposes persistence operations for articles.
//
// UpdateBody and Delete report the number of affected rows; zero is not an error.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) (int64, error)
	UpdateBody(ctx context.Context, id int64, body string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context) ([]domain.Article, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Article, error)
}
