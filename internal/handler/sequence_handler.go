package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"colmado/internal/domain"
	"colmado/internal/service"
)

// SequenceHandler handles fiscal sequence administration endpoints.
type SequenceHandler struct {
	sequenceService service.SequenceService
}

// NewSequenceHandler creates a new SequenceHandler.
func NewSequenceHandler(sequenceService service.SequenceService) *SequenceHandler {
	return &SequenceHandler{sequenceService: sequenceService}
}

// Create handles POST /api/v1/sequences.
func (h *SequenceHandler) Create(c *gin.Context) {
	var input service.CreateSequenceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}
	seq, err := h.sequenceService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, seq)
}

// GetByID handles GET /api/v1/sequences/:id.
func (h *SequenceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}
	st, err := h.sequenceService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, st)
}

// ActiveByType handles GET /api/v1/sequences/active/:type.
func (h *SequenceHandler) ActiveByType(c *gin.Context) {
	st, err := h.sequenceService.ActiveByType(c.Request.Context(), domain.NCFType(c.Param("type")))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, st)
}

// List handles GET /api/v1/sequences.
func (h *SequenceHandler) List(c *gin.Context) {
	statuses, err := h.sequenceService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, statuses)
}

// Deactivate handles POST /api/v1/sequences/:id/deactivate.
func (h *SequenceHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}
	if err := h.sequenceService.Deactivate(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deactivated": true})
}

// Delete handles DELETE /api/v1/sequences/:id.
func (h *SequenceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return
	}
	if err := h.sequenceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
