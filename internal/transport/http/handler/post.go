package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/model"
	"miniblog/internal/transport/http/response"
)

type PostHandler struct {
	content *app.ContentService
}

type PostRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Body        string `json:"body" binding:"required"`
	CategoryIDs []uint `json:"category_ids"`
}

type postDetail struct {
	model.Post
	Comments []model.Comment `json:"comments"`
}

func NewPostHandler(content *app.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.content.ListActivePosts()
	if err != nil {
		writeServiceError(c, err, "list posts failed")
		return
	}
	response.OK(c, gin.H{"posts": nonNilPosts(posts)})
}

func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	posts, err := h.content.ListPostsByAuthor(authorID)
	if err != nil {
		writeServiceError(c, err, "list posts failed")
		return
	}
	response.OK(c, gin.H{"posts": nonNilPosts(posts)})
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	post, err := h.content.GetPost(postID)
	if err != nil {
		writeServiceError(c, err, "get post failed")
		return
	}
	comments, err := h.content.ListComments(postID)
	if err != nil {
		writeServiceError(c, err, "list comments failed")
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	response.OK(c, postDetail{Post: *post, Comments: comments})
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, app.ErrUnauthorized.Error())
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.content.CreatePost(c.Request.Context(), app.CreatePostInput{
		AuthorID:    userID,
		Title:       req.Title,
		Body:        req.Body,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeServiceError(c, err, "create post failed")
		return
	}
	response.Created(c, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, app.ErrUnauthorized.Error())
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.content.EditPost(c.Request.Context(), app.EditPostInput{
		PostID:      postID,
		ActorID:     userID,
		Title:       req.Title,
		Body:        req.Body,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeServiceError(c, err, "edit post failed")
		return
	}
	response.OK(c, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, app.ErrUnauthorized.Error())
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.content.SoftDeletePost(c.Request.Context(), postID, userID); err != nil {
		writeServiceError(c, err, "delete post failed")
		return
	}
	response.OK(c, nil)
}

func nonNilPosts(posts []model.Post) []model.Post {
	if posts == nil {
		return []model.Post{}
	}
	return posts
}
