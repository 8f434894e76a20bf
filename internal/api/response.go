package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/autologist/cargowatch/internal/parser"
)

// Every endpoint answers with the same envelope: {success, data|error,
// message?, count?}. The frontend keys off success alone.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

const uniqueViolation = "23505"

// respondStoreError is the single error-translation point for gateway
// failures: missing rows become 404, store-reported uniqueness conflicts
// become 409, parser lifecycle misuse becomes 400, everything else is a
// 500. In production mode the 500 detail is hidden.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondError(c, http.StatusNotFound, "resource not found")
	case isUniqueViolation(err):
		respondError(c, http.StatusConflict, "resource already exists")
	case errors.Is(err, parser.ErrAlreadyRunning), errors.Is(err, parser.ErrNotRunning):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		msg := "internal server error"
		if !s.production {
			msg = err.Error()
		}
		respondError(c, http.StatusInternalServerError, msg)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
