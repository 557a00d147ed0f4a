package httpx

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/MikeMC777/restaurant-pos/internal/apperr"
)

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
	// Error class: network, database, validation, not_found, conflict, ...
	Kind string `json:"kind,omitempty"`
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error classifies err, logs server-side failures and writes the JSON body.
func Error(c *gin.Context, err error) {
	kind := apperr.Classify(err)
	code := StatusFor(kind)
	if code >= 500 {
		log.Error().Err(err).Str("rid", RID(c)).Str("kind", string(kind)).Msg("[http] request failed")
	}
	c.JSON(code, HTTPError{Error: apperr.UserMessage(err), Kind: string(kind)})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, HTTPError{Error: msg, Kind: string(apperr.KindValidation)})
}

// Page reads limit/offset query params, clamping to [1,100] and >= 0.
func Page(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListResponse is the paginated envelope returned by list endpoints.
type ListResponse[T any] struct {
	Q      string `json:"q,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Items  []T    `json:"items"`
}

func List[T any](c *gin.Context, q string, limit, offset int, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Q: q, Limit: limit, Offset: offset, Items: items})
}
