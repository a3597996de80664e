package api

import (
	"net/http"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/query"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusOf maps a fault kind to its HTTP status
func statusOf(err error) int {
	switch fault.KindOf(err) {
	case fault.BadRequest:
		return http.StatusBadRequest
	case fault.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": message}. Causes are logged, never returned.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": fault.Message(err)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// listOptions holds the list parameter rules of every collection
type listOptions struct {
	articles   query.Options
	pages      query.Options
	categories query.Options
	tags       query.Options
	files      query.Options
}

func newListOptions(cfg config.ContentConfig) listOptions {
	base := func(search []string, order ...query.Sort) query.Options {
		return query.Options{
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
			SearchFields:    search,
			DefaultOrder:    order,
		}
	}
	newest := query.Sort{Field: "createdAt", Desc: true}

	return listOptions{
		articles:   base([]string{"title", "description", "content"}, newest),
		pages:      base([]string{"title", "description", "content"}, newest),
		categories: base([]string{"title", "description"}, query.Sort{Field: "order"}, query.Sort{Field: "title"}),
		tags:       base([]string{"title"}, query.Sort{Field: "title"}),
		files:      base([]string{"title", "filename"}, query.Sort{Field: "isFolder", Desc: true}, query.Sort{Field: "title"}),
	}
}

// parseList reads list parameters from the query string. It writes a 400 and
// returns false when they are malformed.
func parseList(c *gin.Context, opts query.Options) (query.Query, bool) {
	q, err := query.FromValues(c.Request.URL.Query(), opts)
	if err != nil {
		badRequest(c, err.Error())
		return q, false
	}
	return q, true
}

// bindJSON decodes the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body")
		return false
	}
	return true
}
