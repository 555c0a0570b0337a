package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-symptom-mapper/model"
)

// ResolveRequest is the body of POST /symptoms/_resolve
type ResolveRequest struct {
	Query   string `json:"query"`
	Explain bool   `json:"explain"`
}

// MultiResolveRequest is the body of POST /symptoms/_multi_resolve
type MultiResolveRequest struct {
	Queries []model.NamedQuery `json:"queries"`
}

// ResolveResponse is returned by both resolve endpoints
type ResolveResponse struct {
	QueryID           string                  `json:"query_id"`
	Query             string                  `json:"query"`
	Results           []model.ResolvedSymptom `json:"results"`
	Took              int64                   `json:"took"` // milliseconds
	Degraded          bool                    `json:"degraded,omitempty"`
	DictionaryVersion uint64                  `json:"dictionary_version"`
	Chunks            []model.ChunkOutcome    `json:"chunks,omitempty"`
}

// ResolveQueryHandler handles GET /symptoms/resolve?q=...&explain=true
func (api *API) ResolveQueryHandler(c *gin.Context) {
	query := c.Query("q")
	if result := ValidateQuery("q", query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	explain, _ := strconv.ParseBool(c.Query("explain"))
	api.respondResolve(c, query, explain)
}

// ResolveHandler handles POST /symptoms/_resolve
func (api *API) ResolveHandler(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateQuery("query", req.Query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	api.respondResolve(c, req.Query, req.Explain)
}

func (api *API) respondResolve(c *gin.Context, query string, explain bool) {
	resolution := api.mapper.ResolveDetailed(c.Request.Context(), query)

	response := ResolveResponse{
		QueryID:           resolution.QueryID,
		Query:             resolution.Query,
		Results:           resolution.Symptoms(),
		Took:              resolution.Took.Milliseconds(),
		Degraded:          resolution.Degraded,
		DictionaryVersion: resolution.Version,
	}
	if explain {
		response.Chunks = resolution.Chunks
	}
	c.JSON(http.StatusOK, response)
}

// MultiResolveHandler handles POST /symptoms/_multi_resolve
func (api *API) MultiResolveHandler(c *gin.Context) {
	var req MultiResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateMultiResolveRequest(req.Queries); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.mapper.MultiResolve(c.Request.Context(), req.Queries)
	if err != nil {
		SendEngineError(c, "multi resolve", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
