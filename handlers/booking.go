package handlers

import (
	"errors"
	"net/http"

	"devicedesk/middleware"
	"devicedesk/services/catalog"
	"devicedesk/services/deviceinfo"
	"devicedesk/services/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the device pool: enriched listing plus book and
// return mutations. The requesting user is whoever the auth middleware put
// in the context; any authenticated user may book or return any device.
type BookingHandler struct {
	Catalog catalog.CatalogService
	Logger  *zap.Logger
}

func NewBookingHandler(svc catalog.CatalogService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Catalog: svc, Logger: logger}
}

// ListDevicesHandler returns every device with booking state merged with
// live provider metadata, sorted by device name. A provider failure fails
// the whole listing; there is no partial response.
func (h *BookingHandler) ListDevicesHandler(c *gin.Context) {
	devices, err := h.Catalog.Latest(c.Request.Context())
	if err != nil {
		h.Logger.Error("Failed to list devices", zap.Error(err))
		var upstream deviceinfo.UpstreamError
		if errors.As(err, &upstream) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "device catalog is unavailable, please try again later"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list devices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// BookDeviceHandler books the device in the path for the requesting user.
func (h *BookingHandler) BookDeviceHandler(c *gin.Context) {
	device := c.Param("device")
	user := c.GetString(middleware.UserKey)

	record, err := h.Catalog.Book(device, user)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ReturnDeviceHandler releases the device in the path. Only the current
// holder may release it.
func (h *BookingHandler) ReturnDeviceHandler(c *gin.Context) {
	device := c.Param("device")
	user := c.GetString(middleware.UserKey)

	record, err := h.Catalog.Return(device, user)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// respondBookingError translates registry outcomes into HTTP statuses:
// unknown device 404, booking conflicts 409, wrong holder 403.
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var (
		notFound      registry.NotFoundError
		alreadyBooked registry.AlreadyBookedError
		notBooked     registry.NotBookedError
		wrongUser     registry.WrongUserError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &alreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "Device is already booked by another user."})
	case errors.As(err, &notBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "Device is not booked."})
	case errors.As(err, &wrongUser):
		c.JSON(http.StatusForbidden, gin.H{"error": "Device is booked by another user."})
	default:
		h.Logger.Error("Unexpected booking error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking operation failed"})
	}
}
