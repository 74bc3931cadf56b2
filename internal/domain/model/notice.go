package model

import "time"

// Notice is an announcement published by a teacher.
type Notice struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Type          int       `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
	IsTop         bool      `json:"is_top"`
	CreatedBy     int64     `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	FormattedDate string    `json:"formatted_date,omitempty"`
	AuthorName    string    `json:"author_name,omitempty"`
	IsRead        bool      `json:"is_read,omitempty"`
	ReadCount     int       `json:"read_count,omitempty"`
}

// NoticeInput is the create/update payload for a notice.
type NoticeInput struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Type    int    `json:"type"    validate:"gte=0"`
}

// NoticeFilter narrows a notice listing.
type NoticeFilter struct {
	Search string
	Type   int
}

// UnreadCount is the body of the unread counter endpoint.
type UnreadCount struct {
	Count int `json:"count"`
}
