// Package api exposes the rental operations over HTTP. Results are wrapped
// in an Ok/Err envelope and error messages are formatted here rather than in
// the core.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/boreq/rentals"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type Service interface {
	GetRental(id uint64) (rentals.Rental, error)
	AddRental(input rentals.RentalInput) (rentals.Rental, error)
	UpdateRental(id uint64, input rentals.RentalInput) (rentals.Rental, error)
	DeleteRental(id uint64) (rentals.Rental, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.logRequests)

	router.GET("/rentals/:id", h.getRental)
	router.POST("/rentals", h.addRental)
	router.PUT("/rentals/:id", h.updateRental)
	router.DELETE("/rentals/:id", h.deleteRental)

	return router
}

func (h *Handler) getRental(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rental, err := h.service.GetRental(id)
	h.respond(c, rental, err)
}

func (h *Handler) addRental(c *gin.Context) {
	input, ok := h.parseInput(c)
	if !ok {
		return
	}

	rental, err := h.service.AddRental(input)
	h.respond(c, rental, err)
}

func (h *Handler) updateRental(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	input, ok := h.parseInput(c)
	if !ok {
		return
	}

	rental, err := h.service.UpdateRental(id, input)
	h.respond(c, rental, err)
}

func (h *Handler) deleteRental(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	rental, err := h.service.DeleteRental(id)
	h.respond(c, rental, err)
}

func (h *Handler) parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(kindInvalidInput, "id must be an unsigned integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) parseInput(c *gin.Context) (rentals.RentalInput, bool) {
	var input rentals.RentalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(kindInvalidInput, "malformed request body"))
		return rentals.RentalInput{}, false
	}
	return input, true
}

func (h *Handler) respond(c *gin.Context, rental rentals.Rental, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"Ok": rental})
		return
	}

	// the service returns business errors unwrapped
	switch e := err.(type) {
	case rentals.NotFoundError:
		c.JSON(http.StatusNotFound, errorResponse(kindNotFound, NotFoundMessage(e.ID)))
		return
	case rentals.InvalidInputError:
		c.JSON(http.StatusBadRequest, errorResponse(kindInvalidInput, InvalidInputMessage(e.Reason)))
		return
	}

	h.logger.Error("operation failed", "requestID", c.GetString(requestIDHeader), "err", err)
	c.JSON(http.StatusInternalServerError, errorResponse(kindInternal, "internal error"))
}

func (h *Handler) logRequests(c *gin.Context) {
	requestID := uuid.NewString()
	c.Set(requestIDHeader, requestID)
	c.Header(requestIDHeader, requestID)

	start := time.Now()
	c.Next()

	h.logger.Info("handled a request",
		"requestID", requestID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

const (
	kindNotFound     = "NotFound"
	kindInvalidInput = "InvalidInput"
	kindInternal     = "Internal"
)

func errorResponse(kind, msg string) gin.H {
	return gin.H{
		"Err": gin.H{
			kind: gin.H{"msg": msg},
		},
	}
}

func NotFoundMessage(id uint64) string {
	return fmt.Sprintf("Rental with id=%d not found", id)
}

func InvalidInputMessage(reason string) string {
	return fmt.Sprintf("Invalid input: %s", reason)
}
