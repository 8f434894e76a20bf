package api

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/database"
)

// phonePattern accepts international format only: '+' and 10-15 digits.
var phonePattern = regexp.MustCompile(`^\+[0-9]{10,15}$`)

func (s *Server) handleGetRecipients(c *gin.Context) {
	recipients, err := s.store.GetRecipientCategories(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, recipients, len(recipients))
}

type recipientRequest struct {
	Name     string  `json:"name"`
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Category string  `json:"category"`
	Active   *bool   `json:"active"`
}

func (r *recipientRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	if r.Name == "" {
		return "name is required"
	}
	if r.Category == "" {
		return "category is required"
	}

	hasUsername := r.Username != nil && strings.TrimSpace(*r.Username) != ""
	hasPhone := r.Phone != nil && strings.TrimSpace(*r.Phone) != ""
	if !hasUsername && !hasPhone {
		return "at least one of username or phone is required"
	}
	if hasPhone && !phonePattern.MatchString(strings.TrimSpace(*r.Phone)) {
		return "phone must be in international format: + followed by 10-15 digits"
	}
	return ""
}

func (s *Server) handleAddRecipient(c *gin.Context) {
	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	rec, err := s.store.AddRecipientCategory(c.Request.Context(), database.NewRecipientCategory{
		Name:     req.Name,
		Username: req.Username,
		Phone:    req.Phone,
		Category: req.Category,
		Active:   req.Active,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRecipient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	active, ok := req.value(c)
	if !ok {
		return
	}

	rec, err := s.store.UpdateRecipientCategory(c.Request.Context(), id, active)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecipient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := s.store.DeleteRecipientCategory(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondMessage(c, "recipient deleted")
}
