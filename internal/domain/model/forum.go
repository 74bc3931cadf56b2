package model

import "time"

// Author is the public view of a forum participant.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}

// ForumQuestion is a discussion thread.
type ForumQuestion struct {
	ID         int64          `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Author     Author         `json:"author"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	IsSticky   bool           `json:"is_sticky"`
	Comments   []ForumComment `json:"comments"`
	Liked      bool           `json:"liked"`
	LikesCount int            `json:"likes_count"`
}

// ForumComment is a reply on a thread.
type ForumComment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ForumQuestionInput is the create payload for a thread.
type ForumQuestionInput struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

// ForumCommentInput is the create payload for a comment.
type ForumCommentInput struct {
	Content string `json:"content" validate:"required"`
}
