package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DocumentListRequest defines the query parameters of a document listing
type DocumentListRequest struct {
	Limit int `form:"limit" json:"limit"`
}

// GetDocumentsHandler lists documents in registry order; limit 0 returns all of them
func (api *API) GetDocumentsHandler(c *gin.Context) {
	var req DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Invalid query parameters: "+err.Error())
		return
	}
	if req.Limit < 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("limit", "Limit cannot be negative")
		SendStructuredValidationError(c, result)
		return
	}

	eng, ok := api.engineOrError(c)
	if !ok {
		return
	}

	documents := eng.GetAllDocuments(req.Limit)
	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"returned":  len(documents),
		"total":     eng.Count(),
	})
}

// GetDocumentHandler retrieves one document by its page path, e.g. GET /documents/guides/install
func (api *API) GetDocumentHandler(c *gin.Context) {
	path := c.Param("path")
	if result := ValidateDocumentPath(path); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	eng, ok := api.engineOrError(c)
	if !ok {
		return
	}

	doc, found := eng.GetDocument(path)
	if !found {
		SendDocumentNotFoundError(c, path)
		return
	}
	c.JSON(http.StatusOK, doc)
}
