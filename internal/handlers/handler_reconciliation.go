package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests related to bank
// reconciliations.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers routes related to reconciliations.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.createReconciliation)
		recs.GET("/:id", h.getReconciliation)
		recs.GET("", h.listByAccount)
		recs.POST("/:id/adjustments", h.addManualAdjustment)
		recs.POST("/:id/finalize", h.finalizeReconciliation)
	}
}

// createReconciliation godoc
// @Summary Start a bank reconciliation
// @Description Starts a reconciliation for an account; the book balance is seeded from a fresh ledger recalculation
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param reconciliation body dto.CreateReconciliationRequest true "Reconciliation details"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create reconciliation"
// @Security BearerAuth
// @Router /reconciliations [post]
func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rec, err := h.reconciliationService.CreateReconciliation(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Validation error creating reconciliation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create reconciliation in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation created", slog.String("reconciliation_id", rec.ReconciliationID))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// getReconciliation godoc
// @Summary Get a reconciliation by ID
// @Tags reconciliations
// @Produce json
// @Param id path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve reconciliation"
// @Security BearerAuth
// @Router /reconciliations/{id} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	rec, err := h.reconciliationService.GetReconciliation(c.Request.Context(), reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else {
			logger.Error("Failed to get reconciliation", slog.String("reconciliation_id", reconciliationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reconciliation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// listByAccount godoc
// @Summary List reconciliations for an account
// @Tags reconciliations
// @Produce json
// @Param accountID query string true "Account ID"
// @Success 200 {array} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Missing accountID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reconciliations"
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *reconciliationHandler) listByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID query parameter is required"})
		return
	}

	recs, err := h.reconciliationService.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		logger.Error("Failed to list reconciliations", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reconciliations"})
		return
	}

	resp := make([]dto.ReconciliationResponse, 0, len(recs))
	for i := range recs {
		resp = append(resp, dto.ToReconciliationResponse(&recs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// addManualAdjustment godoc
// @Summary Add a manual adjustment to a reconciliation
// @Description Records a manual book-balance correction as a synthetic ledger entry
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param id path string true "Reconciliation ID"
// @Param adjustment body dto.ManualAdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 500 {object} map[string]string "Failed to add adjustment"
// @Security BearerAuth
// @Router /reconciliations/{id}/adjustments [post]
func (h *reconciliationHandler) addManualAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	var req dto.ManualAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddManualAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.reconciliationService.AddManualAdjustment(c.Request.Context(), reconciliationID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adding adjustment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add manual adjustment", slog.String("reconciliation_id", reconciliationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add adjustment"})
		}
		return
	}

	logger.Info("Manual adjustment recorded", slog.String("reconciliation_id", reconciliationID), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// finalizeReconciliation godoc
// @Summary Finalize a reconciliation
// @Tags reconciliations
// @Produce json
// @Param id path string true "Reconciliation ID"
// @Success 204 "Reconciliation finalized"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 500 {object} map[string]string "Failed to finalize reconciliation"
// @Security BearerAuth
// @Router /reconciliations/{id}/finalize [post]
func (h *reconciliationHandler) finalizeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.reconciliationService.FinalizeReconciliation(c.Request.Context(), reconciliationID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reconciliation not found"})
		} else {
			logger.Error("Failed to finalize reconciliation", slog.String("reconciliation_id", reconciliationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation finalized", slog.String("reconciliation_id", reconciliationID))
	c.Status(http.StatusNoContent)
}
