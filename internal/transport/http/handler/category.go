package handler

import (
	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/model"
	"miniblog/internal/transport/http/response"
)

type CategoryHandler struct {
	taxonomy *app.TaxonomyService
}

func NewCategoryHandler(taxonomy *app.TaxonomyService) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.taxonomy.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "list categories failed")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	response.OK(c, gin.H{"categories": categories})
}
