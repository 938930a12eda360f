package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storyloom/treasury/internal/app/service/notification"
	"github.com/storyloom/treasury/pkg/response"
)

// @Summary      List Notifications
// @Description  Returns a page of the user's notifications, newest first.
// @Tags         Notification
// @Produce      json
// @Param        id path string true "User ID"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  handlers.RespNotifications
// @Router       /api/v1/users/{id}/notifications [get]
func ApiListNotifications(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		items, err := svc.List(c.Request.Context(), c.Param("id"), limit, offset)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Unread Notification Count
// @Tags         Notification
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespUnreadCount
// @Router       /api/v1/users/{id}/notifications/unread_count [get]
func ApiUnreadCount(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.UnreadCount(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]int64{"unread": count}))
	}
}

// @Summary      Mark Notification Read
// @Tags         Notification
// @Produce      json
// @Param        id path string true "User ID"
// @Param        notification_id path string true "Notification ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/{id}/notifications/{notification_id}/read [post]
func ApiMarkRead(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkRead(c.Request.Context(), c.Param("id"), c.Param("notification_id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Mark All Notifications Read
// @Tags         Notification
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/{id}/notifications/read_all [post]
func ApiMarkAllRead(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkAllRead(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterNotificationRoutes(r gin.IRouter, svc *notification.Service) {
	r.GET("/:id/notifications", ApiListNotifications(svc))
	r.GET("/:id/notifications/unread_count", ApiUnreadCount(svc))
	r.POST("/:id/notifications/:notification_id/read", ApiMarkRead(svc))
	r.POST("/:id/notifications/read_all", ApiMarkAllRead(svc))
}
