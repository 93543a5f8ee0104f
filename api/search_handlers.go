package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query   string `json:"query" form:"q"`
	Limit   int    `json:"limit" form:"limit"`
	Offset  int    `json:"offset" form:"offset"`
	Suggest bool   `json:"suggest" form:"suggest"`
}

// SearchHandler handles GET /search?q=&limit=&offset=&suggest=
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid query parameters: "+err.Error())
		return
	}
	api.search(c, req)
}

// SearchJSONHandler handles POST /search with a SearchRequest body
func (api *API) SearchJSONHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendRequestTooLargeError(c, tooLarge.Limit)
			return
		}
		SendInvalidJSONError(c, err)
		return
	}
	api.search(c, req)
}

func (api *API) search(c *gin.Context, req SearchRequest) {
	startTime := time.Now()
	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	eng, ok := api.engineOrError(c)
	if !ok {
		return
	}

	results, err := eng.Search(req.Query, services.SearchOptions{
		Limit:   req.Limit,
		Offset:  req.Offset,
		Suggest: req.Suggest,
	})
	if err != nil {
		SendSearchError(c, err)
		return
	}

	searchType := model.SearchTypeExact
	if req.Suggest {
		searchType = model.SearchTypeSuggest
	}
	api.analytics.TrackSearchEvent(model.SearchEvent{
		Query:        req.Query,
		SearchType:   searchType,
		ResponseTime: time.Since(startTime),
		ResultCount:  results.Total,
	})

	c.JSON(http.StatusOK, results)
}
