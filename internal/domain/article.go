package domain

import "time"

// Article is a piece of text published by a writer.
//
// CreatedBy is the author's display name captured when the article was
// submitted. It is never refreshed from the user record.
type Article struct {
	ID        int64
	UserID    int64
	CreatedBy string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Writer is the public projection of a user in article listings.
type Writer struct {
	Name string
}
