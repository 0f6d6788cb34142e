package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/idriss-elouiri/Stock-Management-System/internal/httpx"
	"github.com/idriss-elouiri/Stock-Management-System/internal/services"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Anything unclassified (including SequenceError) is a server-side
// failure and deliberately hides its detail from the client.
func respondError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
		insufficient *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		httpx.Fail(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &insufficient):
		httpx.Fail(c, http.StatusBadRequest, insufficient.Error())
	case errors.As(err, &notFound):
		httpx.Fail(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		httpx.Fail(c, http.StatusConflict, conflict.Error())
	default:
		_ = c.Error(err)
		httpx.Fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(c *gin.Context, param string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(param))
	if err != nil {
		httpx.Fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parseDate accepts the date-only form the frontend sends and full
// RFC 3339 timestamps.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &services.ValidationError{Msg: "invalid date: " + value}
	}
	return &t, nil
}

func parseDateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	from, err := parseDate(c.Query("startDate"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	to, err = parseDate(c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return from, to, true
}
