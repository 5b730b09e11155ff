package handlers

import (
	"devicedesk/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates everything the route registration needs.
type HandlerBundle struct {
	Sessions session.Store

	// Auth endpoints.
	LoginHandler  gin.HandlerFunc
	LogoutHandler gin.HandlerFunc

	// Booking endpoints.
	ListDevicesHandler  gin.HandlerFunc
	BookDeviceHandler   gin.HandlerFunc
	ReturnDeviceHandler gin.HandlerFunc
}
