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

// liabilityHandler handles HTTP requests related to liabilities. Payments are
// not posted here; they arrive as expenditure entries referencing a liability.
type liabilityHandler struct {
	liabilityService portssvc.LiabilitySvcFacade
}

func newLiabilityHandler(ls portssvc.LiabilitySvcFacade) *liabilityHandler {
	return &liabilityHandler{liabilityService: ls}
}

// registerLiabilityRoutes registers routes related to liabilities.
func registerLiabilityRoutes(rg *gin.RouterGroup, liabilityService portssvc.LiabilitySvcFacade) {
	h := newLiabilityHandler(liabilityService)

	liabilities := rg.Group("/liabilities")
	{
		liabilities.POST("", h.createLiability)
		liabilities.GET("/:id", h.getLiability)
		liabilities.GET("", h.listLiabilities)
	}
}

// createLiability godoc
// @Summary Record a liability
// @Description Records a new creditor liability
// @Tags liabilities
// @Accept json
// @Produce json
// @Param liability body dto.CreateLiabilityRequest true "Liability details"
// @Success 201 {object} dto.LiabilityResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create liability"
// @Security BearerAuth
// @Router /liabilities [post]
func (h *liabilityHandler) createLiability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLiability", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	liability, err := h.liabilityService.CreateLiability(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating liability", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create liability in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create liability"})
		}
		return
	}

	logger.Info("Liability created successfully", slog.String("liability_id", liability.LiabilityID))
	c.JSON(http.StatusCreated, dto.ToLiabilityResponse(liability))
}

// getLiability godoc
// @Summary Get a liability by ID
// @Tags liabilities
// @Produce json
// @Param id path string true "Liability ID"
// @Success 200 {object} dto.LiabilityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Liability not found"
// @Failure 500 {object} map[string]string "Failed to retrieve liability"
// @Security BearerAuth
// @Router /liabilities/{id} [get]
func (h *liabilityHandler) getLiability(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	liabilityID := c.Param("id")

	liability, err := h.liabilityService.GetLiabilityByID(c.Request.Context(), liabilityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Liability not found"})
		} else {
			logger.Error("Failed to get liability", slog.String("liability_id", liabilityID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve liability"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLiabilityResponse(liability))
}

// listLiabilities godoc
// @Summary List liabilities
// @Tags liabilities
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.LiabilityResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list liabilities"
// @Security BearerAuth
// @Router /liabilities [get]
func (h *liabilityHandler) listLiabilities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := listParams(c)

	liabilities, err := h.liabilityService.ListLiabilities(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list liabilities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list liabilities"})
		return
	}

	resp := make([]dto.LiabilityResponse, 0, len(liabilities))
	for i := range liabilities {
		resp = append(resp, dto.ToLiabilityResponse(&liabilities[i]))
	}
	c.JSON(http.StatusOK, resp)
}
