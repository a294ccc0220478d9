package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// entryHandler handles HTTP requests for income and expenditure entries.
// Deletion is routed to the dedicated orchestrator service.
type entryHandler struct {
	entryService    portssvc.EntrySvcFacade
	deletionService portssvc.DeletionSvcFacade
}

func newEntryHandler(es portssvc.EntrySvcFacade, ds portssvc.DeletionSvcFacade) *entryHandler {
	return &entryHandler{entryService: es, deletionService: ds}
}

// registerEntryRoutes registers ledger entry routes. The table segment is one
// of "income" or "expenditure".
func registerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade, deletionService portssvc.DeletionSvcFacade) {
	h := newEntryHandler(entryService, deletionService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("/:table/:id", h.getEntry)
		entries.DELETE("/:table/:id", h.deleteEntry)
	}
}

// tableFromParam maps the URL segment to a ledger table.
func tableFromParam(param string) (domain.EntryTable, bool) {
	switch param {
	case "income":
		return domain.TableIncome, true
	case "expenditure":
		return domain.TableExpenditure, true
	default:
		return "", false
	}
}

// createEntry godoc
// @Summary Post a financial entry
// @Description Records an income or expenditure entry and applies its bookkeeping side effects
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Validation error creating entry", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		}
		return
	}

	logger.Info("Entry created successfully", slog.String("entry_id", entry.EntryID), slog.String("table", string(entry.Table)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a financial entry
// @Description Retrieves a single income or expenditure entry
// @Tags entries
// @Produce json
// @Param table path string true "Ledger" Enums(income, expenditure)
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Unknown ledger"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /entries/{table}/{id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	table, ok := tableFromParam(c.Param("table"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown ledger: " + c.Param("table")})
		return
	}
	entryID := c.Param("id")

	entry, err := h.entryService.GetEntry(c.Request.Context(), table, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else {
			logger.Error("Failed to get entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a financial entry
// @Description Deletes an entry and compensates balances, budgets, liabilities and reconciliations. Secondary failures are reported as warnings, not errors.
// @Tags entries
// @Produce json
// @Param table path string true "Ledger" Enums(income, expenditure)
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.DeletionResponse
// @Failure 400 {object} map[string]string "Unknown ledger"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete entry"
// @Security BearerAuth
// @Router /entries/{table}/{id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	table, ok := tableFromParam(c.Param("table"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown ledger: " + c.Param("table")})
		return
	}
	entryID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.deletionService.DeleteFinancialEntry(c.Request.Context(), table, entryID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to delete entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		}
		return
	}

	logger.Info("Entry deleted", slog.String("entry_id", entryID), slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusOK, dto.ToDeletionResponse(result))
}
