package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-server/internal/auth"
	"blog-server/internal/domain"
	"blog-server/internal/service"
	"blog-server/internal/storage"
)

const mediaURLTTL = 15 * time.Minute

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	posts       service.PostService
	comments    service.CommentService
	sessions    *auth.Manager
	media       storage.Service
	mediaBucket string
	mediaPrefix string
}

func NewHandler(
	users service.UserService,
	posts service.PostService,
	comments service.CommentService,
	sessions *auth.Manager,
	media storage.Service,
	mediaBucket, mediaPrefix string,
) *Handler {
	return &Handler{
		users:       users,
		posts:       posts,
		comments:    comments,
		sessions:    sessions,
		media:       media,
		mediaBucket: mediaBucket,
		mediaPrefix: strings.Trim(mediaPrefix, "/"),
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	requireSession := auth.RequireSession(h.sessions, h.users)
	optionalSession := auth.OptionalSession(h.sessions, h.users)
	requireAuthor := auth.RequireRole(domain.RoleWriter, domain.RoleAdmin)

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
			authGroup.POST("/logout", h.logout)
			authGroup.GET("/me", requireSession, h.me)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.listPublished)
			posts.GET("/myposts", requireSession, requireAuthor, h.listMine)
			posts.GET("/:id", optionalSession, h.getPost)
			posts.POST("", requireSession, requireAuthor, h.createPost)
			posts.PUT("/:id", requireSession, requireAuthor, h.updatePost)
			posts.DELETE("/:id", requireSession, requireAuthor, h.deletePost)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/:postId", h.listComments)
			comments.POST("/:postId", requireSession, h.addComment)
			comments.DELETE("/:commentId", requireSession, h.deleteComment)
		}

		media := api.Group("/media", requireSession)
		{
			media.POST("", requireAuthor, h.uploadMedia)
			media.GET("", requireAuthor, h.listMedia)
			media.DELETE("/*key", auth.RequireRole(domain.RoleAdmin), h.deleteMedia)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// the session rides a cookie, so credentials must be allowed and the
		// origin echoed back instead of "*"
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// logout clears the cookie only; the token stays valid until its expiry.
func (h *Handler) logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(auth.CurrentUser(c)))
}

func (h *Handler) startSession(c *gin.Context, userID int64) error {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	h.sessions.SetCookie(c, token)
	return nil
}

func (h *Handler) listPublished(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	search := c.Query("search")

	result, err := h.posts.ListPublished(c.Request.Context(), page, pageSize, search)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PostListResponse{
		Posts: postsToResponse(result.Posts),
		Page:  result.Page,
		Pages: result.Pages,
		Total: result.Total,
	})
}

func (h *Handler) listMine(c *gin.Context) {
	posts, err := h.posts.ListMine(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postsToResponse(posts))
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id, auth.CurrentUser(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
	Status  string `json:"status"`
}

func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), auth.CurrentUser(c), service.PostInput(req))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, auth.CurrentUser(c), service.PostInput(req))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), id, auth.CurrentUser(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post removed"})
}

func (h *Handler) listComments(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	comments, err := h.comments.ListForPost(c.Request.Context(), postID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	c.JSON(http.StatusOK, resp)
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) addComment(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), auth.CurrentUser(c), postID, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(*comment))
}

func (h *Handler) deleteComment(c *gin.Context) {
	commentID, ok := paramID(c, "commentId")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), auth.CurrentUser(c), commentID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment removed"})
}

func (h *Handler) uploadMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", h.mediaPrefix, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	location, err := h.media.Upload(c.Request.Context(), h.mediaBucket, key, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	url, err := h.media.PresignURL(c.Request.Context(), h.mediaBucket, key, mediaURLTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":      key,
		"location": location,
		"url":      url,
	})
}

func (h *Handler) listMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}

	objects, err := h.media.List(c.Request.Context(), h.mediaBucket, h.mediaPrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]MediaObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object key is required"})
		return
	}

	if err := h.media.Delete(c.Request.Context(), h.mediaBucket, key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": key})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return id, true
}

func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidState):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthorResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type PostResponse struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []string       `json:"tags"`
	Status    string         `json:"status"`
	Author    AuthorResponse `json:"author"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Total int            `json:"total"`
}

type CommentResponse struct {
	ID        int64          `json:"id"`
	PostID    int64          `json:"post_id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	CreatedAt string         `json:"created_at"`
}

type MediaObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

func postToResponse(post domain.Post) PostResponse {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Tags:    tags,
		Status:  string(post.Status),
		Author: AuthorResponse{
			ID:       post.AuthorID,
			Username: post.AuthorName,
		},
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
		UpdatedAt: post.UpdatedAt.Format(time.RFC3339),
	}
}

func postsToResponse(posts []domain.Post) []PostResponse {
	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	return resp
}

func commentToResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		PostID:  comment.PostID,
		Content: comment.Content,
		Author: AuthorResponse{
			ID:       comment.AuthorID,
			Username: comment.AuthorName,
		},
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
}

func objectToResponse(obj storage.ObjectInfo) MediaObjectResponse {
	resp := MediaObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
