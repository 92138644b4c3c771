package service

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"writers-api/internal/domain"
	"writers-api/internal/repository"
)

// AllWriters selects every article in List.
const AllWriters = "all"

// ArticleService coordinates article operations backed by the repository.
//
// Edit and Delete skip existence and ownership checks: any
// verified writer may change any article, and unknown ids are no-ops.
type ArticleService interface {
	Submit(ctx context.Context, author *domain.User, body string) (*domain.Article, error)
	Edit(ctx context.Context, id int64, body string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, writers string) ([]domain.Article, error)
}

type articleService struct {
	articles repository.ArticleRepository
	logger   logrus.FieldLogger
}

func NewArticleService(articles repository.ArticleRepository, logger logrus.FieldLogger) ArticleService {
	return &articleService{
		articles: articles,
		logger:   logger,
	}
}

func (s *articleService) Submit(ctx context.Context, author *domain.User, body string) (*domain.Article, error) {
	article := &domain.Article{
		UserID:    author.ID,
		CreatedBy: author.Name,
		Body:      body,
	}
	if _, err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *articleService) Edit(ctx context.Context, id int64, body string) error {
	n, err := s.articles.UpdateBody(ctx, id, body)
	if err != nil {
		return err
	}
	if n == 0 {
		s.logger.WithField("article_id", id).Debug("edit matched no article")
	}
	return nil
}

func (s *articleService) Delete(ctx context.Context, id int64) error {
	n, err := s.articles.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		s.logger.WithField("article_id", id).Debug("delete matched no article")
	}
	return nil
}

// List returns every article for "all", otherwise the articles of the user
// id in writers. Anything else matches nothing.
func (s *articleService) List(ctx context.Context, writers string) ([]domain.Article, error) {
	if writers == AllWriters {
		return s.articles.List(ctx)
	}
	userID, err := strconv.ParseInt(writers, 10, 64)
	if err != nil {
		return []domain.Article{}, nil
	}
	return s.articles.ListByUser(ctx, userID)
}
