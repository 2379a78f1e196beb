package handler

import (
	"context"
	"net/http"

	"distance-api/internal/models"
	"distance-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const codeInternal = "INTERNAL_ERROR"

// DistanceHandler handles distance calculation requests
type DistanceHandler struct {
	service DistanceService
}

// DistanceService interface for dependency injection
type DistanceService interface {
	Resolve(ctx context.Context, start, end string) (*models.DistanceResponse, error)
}

// NewDistanceHandler creates a new distance handler
func NewDistanceHandler(svc DistanceService) *DistanceHandler {
	return &DistanceHandler{service: svc}
}

// CalculateDistance handles GET /api/distance requests
//
//	@Summary		Distance between two places
//	@Description	Resolves both places to stored or geocoded locations and returns the travel distance and estimated time.
//	@Tags			distance
//	@Produce		json
//	@Param			start	query		string	true	"Start place name or address"
//	@Param			end		query		string	true	"End place name or address"
//	@Success		200		{object}	models.DistanceResponse
//	@Failure		400		{object}	models.ErrorResponse	"INVALID_PARAMETERS, GEOCODING_FAILED or DISTANCE_CALCULATION_FAILED"
//	@Failure		500		{object}	models.ErrorResponse	"REFERENTIAL_INTEGRITY_ERROR or INTERNAL_ERROR"
//	@Router			/api/distance [get]
func (h *DistanceHandler) CalculateDistance(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")

	resp, err := h.service.Resolve(c.Request.Context(), start, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps classified errors to 400, except REFERENTIAL_INTEGRITY_ERROR
// which is a server fault and maps to 500. Unclassified errors are 500 INTERNAL_ERROR.
func writeError(c *gin.Context, err error) {
	svcErr, ok := service.AsError(err)
	if !ok {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("distance request failed")
		c.JSON(http.StatusInternalServerError, errorBody(codeInternal, "internal server error"))
		return
	}

	status := http.StatusBadRequest
	if !svcErr.ClientFault() {
		status = http.StatusInternalServerError
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("distance request failed")
	}
	c.JSON(status, errorBody(string(svcErr.Code), svcErr.Message))
}

func errorBody(code, message string) models.ErrorResponse {
	return models.ErrorResponse{
		Status: models.StatusError,
		Error:  models.ErrorDetail{Code: code, Message: message},
	}
}
