package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUnmappedHandler returns the latest stored unmapped terms
func (api *API) ListUnmappedHandler(c *gin.Context) {
	limit, result := ParseLimit(c)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	terms, err := api.mapper.ListUnmapped(c.Request.Context(), limit)
	if err != nil {
		SendInternalError(c, "unmapped term listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"terms": terms,
		"total": len(terms),
	})
}

// TopUnmappedHandler returns the most frequent recently unresolved chunks
func (api *API) TopUnmappedHandler(c *gin.Context) {
	limit, result := ParseLimit(c)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	counts := api.mapper.TopUnmapped(limit)
	c.JSON(http.StatusOK, gin.H{
		"chunks": counts,
		"total":  len(counts),
	})
}
