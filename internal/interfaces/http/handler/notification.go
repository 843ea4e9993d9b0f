package handler

import (
	appnotification "github.com/schoolfees/backend/internal/application/notification"
	"github.com/schoolfees/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the authenticated user's notification feed
type NotificationHandler struct {
	BaseHandler
	notificationService *appnotification.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *appnotification.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterRoutes registers notification routes. Everything except the
// announcement endpoint operates on the caller's own feed.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}

	announce := rg.Group("/notifications/announce", adminMW...)
	announce.POST("", h.Announce)
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	filter := parseFilter(c)
	if raw := c.Query("unread"); raw != "" {
		filter.Filters["unread"] = raw == "true"
	}

	page, err := h.notificationService.ListUserNotifications(c.Request.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	resp, err := h.notificationService.MarkRead(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkAllRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Announce sends a general notification to one user
func (h *NotificationHandler) Announce(c *gin.Context) {
	var req appnotification.AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid announcement payload: "+err.Error())
		return
	}

	resp, err := h.notificationService.Announce(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
