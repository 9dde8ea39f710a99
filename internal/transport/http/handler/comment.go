package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/transport/http/response"
)

type CommentHandler struct {
	content *app.ContentService
}

type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func NewCommentHandler(content *app.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, app.ErrUnauthorized.Error())
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	comment, err := h.content.AddComment(c.Request.Context(), app.AddCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Body:     req.Body,
	})
	if err != nil {
		writeServiceError(c, err, "add comment failed")
		return
	}
	response.Created(c, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, app.ErrUnauthorized.Error())
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.content.DeleteComment(c.Request.Context(), commentID, userID); err != nil {
		writeServiceError(c, err, "delete comment failed")
		return
	}
	response.OK(c, nil)
}
