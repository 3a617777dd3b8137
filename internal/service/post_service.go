package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"post-board/internal/domain"
	"post-board/internal/repository"
)

// PostService orchestrates post use cases. Each call opens exactly one
// unit-of-work scope; transactions are never shared across requests.
type PostService interface {
	Create(ctx context.Context, req *CreatePostRequest, caller string) (*CreatePostResponse, error)
	Read(ctx context.Context, id string) (*PostResponse, error)
	ReadAll(ctx context.Context) (*PostsResponse, error)
}

type postService struct {
	uow repository.UnitOfWork
}

func NewPostService(uow repository.UnitOfWork) PostService {
	return &postService{uow: uow}
}

func (s *postService) Create(ctx context.Context, req *CreatePostRequest, caller string) (*CreatePostResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", domain.ErrValidation)
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller identity is blank", domain.ErrValidation)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:          uuid.NewString(),
		Author:      caller,
		Title:       req.Title,
		Description: req.Description,
		Votes:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   caller,
		UpdatedBy:   caller,
	}

	scope, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	if err := scope.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	if err := scope.Commit(); err != nil {
		return nil, err
	}

	return &CreatePostResponse{ID: post.ID}, nil
}

func (s *postService) Read(ctx context.Context, id string) (*PostResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: post id is blank", domain.ErrValidation)
	}

	scope, err := s.uow.BeginRead(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	post, err := scope.Posts().Read(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := postToResponse(*post)
	return &resp, nil
}

func (s *postService) ReadAll(ctx context.Context) (*PostsResponse, error) {
	scope, err := s.uow.BeginRead(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	posts, err := scope.Posts().ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &PostsResponse{Posts: make([]PostResponse, len(posts))}
	for i := range posts {
		resp.Posts[i] = postToResponse(posts[i])
	}
	return resp, nil
}
