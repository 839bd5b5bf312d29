package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
	"github.com/campusbooks/school_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventHandler handles HTTP requests for notice board announcements.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(eventService portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: eventService}
}

// registerEventRoutes sets up announcement routes on the authenticated group.
func registerEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.POST("", h.createEvent)
		events.GET("", h.listEvents)
		events.GET("/:eventID", h.getEvent)
		events.DELETE("/:eventID", h.deleteEvent)
	}
}

// createEvent godoc
// @Summary Post an announcement
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.CreateEventRequest true "Announcement details"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /events [post]
func (h *eventHandler) createEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind event request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.eventService.CreateEvent(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventResponse(created))
}

// listEvents godoc
// @Summary List announcements
// @Description Token-paginated, newest first.
// @Tags events
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.ListEventsResponse
// @Failure 400 {object} ErrorResponse "Bad pagination token"
// @Router /events [get]
func (h *eventHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	events, newToken, err := h.eventService.ListEvents(c.Request.Context(), actor, limit, nextToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list events", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListEventsResponse(events, newToken))
}

// getEvent godoc
// @Summary Get one announcement
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventID} [get]
func (h *eventHandler) getEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, err := strconv.ParseInt(c.Param("eventID"), 10, 64)
	if err != nil || eventID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	event, err := h.eventService.GetEventByID(c.Request.Context(), actor, eventID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get event", slog.String("error", err.Error()), slog.Int64("event_id", eventID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEventResponse(event))
}

// deleteEvent godoc
// @Summary Delete an announcement
// @Description Admin only.
// @Tags events
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /events/{eventID} [delete]
func (h *eventHandler) deleteEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	eventID, err := strconv.ParseInt(c.Param("eventID"), 10, 64)
	if err != nil || eventID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), actor, eventID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete event", slog.String("error", err.Error()), slog.Int64("event_id", eventID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
