package http

import (
	"time"

	"writers-api/internal/domain"
)

// UserResponse is the public user representation; the password hash never
// leaves the service.
type UserResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Bio             string  `json:"bio"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ArticleResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	CreatedBy string `json:"created_by"`
	Article   string `json:"article"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type WriterResponse struct {
	Name string `json:"name"`
}

func userToResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if user.EmailVerifiedAt != nil {
		v := user.EmailVerifiedAt.UTC().Format(time.RFC3339)
		resp.EmailVerifiedAt = &v
	}
	return resp
}

func articleToResponse(article domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        article.ID,
		UserID:    article.UserID,
		CreatedBy: article.CreatedBy,
		Article:   article.Body,
		CreatedAt: article.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: article.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func articlesToResponse(articles []domain.Article) []ArticleResponse {
	resp := make([]ArticleResponse, len(articles))
	for i := range articles {
		resp[i] = articleToResponse(articles[i])
	}
	return resp
}

func writersToResponse(writers []domain.Writer) []WriterResponse {
	resp := make([]WriterResponse, len(writers))
	for i := range writers {
		resp[i] = WriterResponse{Name: writers[i].Name}
	}
	return resp
}
