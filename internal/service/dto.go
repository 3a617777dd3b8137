package service

import (
	"time"

	"post-board/internal/domain"
)

// CreatePostRequest is the inbound shape for creating a post.
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreatePostResponse carries the id assigned to a newly created post.
type CreatePostResponse struct {
	ID string `json:"id"`
}

// PostResponse is the outbound view of one post. Timestamps are rendered as
// RFC3339 strings.
type PostResponse struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Votes       int    `json:"votes"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CreatedBy   string `json:"created_by"`
	UpdatedBy   string `json:"updated_by"`
}

// PostsResponse wraps the full collection of posts.
type PostsResponse struct {
	Posts []PostResponse `json:"posts"`
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:          post.ID,
		Author:      post.Author,
		Title:       post.Title,
		Description: post.Description,
		Votes:       post.Votes,
		CreatedAt:   post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   post.UpdatedAt.Format(time.RFC3339),
		CreatedBy:   post.CreatedBy,
		UpdatedBy:   post.UpdatedBy,
	}
}
