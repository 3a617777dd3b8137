package http

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"post-board/internal/auth"
	"post-board/internal/domain"
	"post-board/internal/service"
	"post-board/internal/storage"
)

const (
	// ScopeCreatePost guards write access to posts.
	ScopeCreatePost = "create-post"
	// ScopeReadPost guards read access to posts.
	ScopeReadPost = "read-post"

	callerContextKey = "caller"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	posts     service.PostService
	users     service.UserService
	verifier  auth.Verifier
	issuer    *auth.LocalIssuer
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewHandler(posts service.PostService, verifier auth.Verifier) *Handler {
	return &Handler{
		posts:    posts,
		verifier: verifier,
	}
}

// WithLocalAuth enables the register/login endpoints backed by the local
// token issuer.
func (h *Handler) WithLocalAuth(users service.UserService, issuer *auth.LocalIssuer) *Handler {
	h.users = users
	h.issuer = issuer
	return h
}

// WithStorage enables the per-post attachment endpoints.
func (h *Handler) WithStorage(store storage.Service, bucket, keyPrefix string) *Handler {
	h.storage = store
	h.bucket = bucket
	h.keyPrefix = keyPrefix
	return h
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	if h.issuer != nil {
		authGroup := router.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
		}
	}

	posts := router.Group("/posts")
	{
		posts.POST("/", h.requireScope(ScopeCreatePost), h.createPost)
		posts.GET("/", h.requireScope(ScopeReadPost), h.listPosts)
		posts.GET("/:post_id", h.requireScope(ScopeReadPost), h.getPost)
		if h.storage != nil {
			posts.POST("/:post_id/attachments", h.requireScope(ScopeCreatePost), h.uploadAttachment)
			posts.GET("/:post_id/attachments", h.requireScope(ScopeReadPost), h.listAttachments)
			posts.DELETE("/:post_id/attachments", h.requireScope(ScopeCreatePost), h.deleteAttachments)
		}
	}

	router.GET("/api/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireScope authenticates the bearer token and enforces one scope. The
// verified caller identity is stashed in the request context for handlers.
func (h *Handler) requireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		caller, err := h.verifier.Verify(c.Request.Context(), token, scope)
		if err != nil {
			if errors.Is(err, auth.ErrInsufficientScope) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized access to resource"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(callerContextKey, caller)
		c.Next()
	}
}

func (h *Handler) createPost(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.posts.Create(c.Request.Context(), &req, c.GetString(callerContextKey))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listPosts(c *gin.Context) {
	resp, err := h.posts.ReadAll(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	resp, err := h.posts.Read(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type registerRequest struct {
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required"`
	RegisterPassword string `json:"register_password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.RegisterPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRegistrationPassword):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.issuer.IssueToken(user.Username, []string{ScopeCreatePost, ScopeReadPost})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type AttachmentResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	URL          string  `json:"url,omitempty"`
	LastModified *string `json:"last_modified,omitempty"`
}

func (h *Handler) uploadAttachment(c *gin.Context) {
	postID := c.Param("post_id")
	if _, err := h.posts.Read(c.Request.Context(), postID); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	name := path.Base(strings.ReplaceAll(file.Filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attachment filename"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	location, err := h.storage.Upload(c.Request.Context(), storage.UploadInput{
		Bucket:      h.bucket,
		Key:         h.attachmentKey(postID, name),
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

func (h *Handler) listAttachments(c *gin.Context) {
	postID := c.Param("post_id")
	if _, err := h.posts.Read(c.Request.Context(), postID); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, h.attachmentKey(postID, ""))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]AttachmentResponse, len(objects))
	for i, obj := range objects {
		resp[i] = AttachmentResponse{
			Key:  obj.Key,
			Size: obj.Size,
		}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
		if url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, obj.Key, 15*time.Minute); err == nil {
			resp[i].URL = url
		}
	}
	c.JSON(http.StatusOK, gin.H{"attachments": resp})
}

func (h *Handler) deleteAttachments(c *gin.Context) {
	postID := c.Param("post_id")
	if _, err := h.posts.Read(c.Request.Context(), postID); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if err := h.storage.DeletePrefix(c.Request.Context(), h.bucket, h.attachmentKey(postID, "")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": postID})
}

func (h *Handler) attachmentKey(postID, name string) string {
	prefix := strings.Trim(h.keyPrefix, "/")
	key := fmt.Sprintf("%s/%s", postID, name)
	if name == "" {
		key = postID + "/"
	}
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
