package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teeslots/bayfinder/internal/domain/availability"
	apperrors "github.com/teeslots/bayfinder/pkg/errors"
)

// QuerySessionHeader identifies the client view whose queries replace each other.
const QuerySessionHeader = "X-Query-Session"

// Handler wires the HTTP transport to the availability service.
type Handler struct {
	availabilitySvc availability.Service
	logger          *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc availability.Service, logger *slog.Logger) *Handler {
	return &Handler{
		availabilitySvc: svc,
		logger:          logger.With("component", "http.handler"),
	}
}

// Availability relays a single upstream availability request byte-for-byte.
func (h *Handler) Availability(c *gin.Context) {
	var req availability.ProxyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}

	body, err := h.availabilitySvc.Raw(c.Request.Context(), req)
	if err != nil {
		var upstream *availability.UpstreamError
		switch {
		case apperrors.IsCode(err, apperrors.CodeInvalidInput):
			abortWithError(c, invalidRequest(err))
		case apperrors.IsCode(err, apperrors.CodeUpstreamError) && errors.As(err, &upstream):
			abortWithError(c, NewHTTPError(upstream.Status, apperrors.CodeUpstreamError, apperrors.MessageOf(err), err))
		default:
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, apperrors.CodeAvailabilityFailed, "failed to fetch availability", err))
		}
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// Slots returns grouped, filtered availability for the requested criteria.
func (h *Handler) Slots(c *gin.Context) {
	var req availability.SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	req.Session = c.GetHeader(QuerySessionHeader)

	view, err := h.availabilitySvc.Query(c.Request.Context(), req)
	if err != nil {
		switch {
		case apperrors.IsCode(err, apperrors.CodeInvalidInput):
			abortWithError(c, invalidRequest(err))
		case apperrors.IsCode(err, apperrors.CodeQuerySuperseded):
			abortWithError(c, NewHTTPError(http.StatusConflict, apperrors.CodeQuerySuperseded, apperrors.MessageOf(err), err))
		default:
			abortWithError(c, NewHTTPError(http.StatusBadGateway, apperrors.CodeAvailabilityFailed, "failed to fetch availability, please try again", err))
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// Locations lists the venues a query may target.
func (h *Handler) Locations(c *gin.Context) {
	c.JSON(http.StatusOK, h.availabilitySvc.Locations())
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
