package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"seva-booking/internal/domain"
	"seva-booking/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	bookings  service.BookingService
	store     Pinger
	staticDir string
	logger    logrus.FieldLogger
}

func NewHandler(users service.UserService, bookings service.BookingService, store Pinger, staticDir string, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:     users,
		bookings:  bookings,
		store:     store,
		staticDir: staticDir,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), cors.Default())

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/book", h.book)
		api.GET("/bookings/:email", h.listBookings)
		api.GET("/health", h.health)
	}

	router.NoRoute(h.serveFrontend)
}

type UserResponse struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
}

type BookingResponse struct {
	Email string `json:"email"`
	Seva  string `json:"seva"`
	Date  string `json:"date"`
}

func (h *Handler) register(c *gin.Context) {
	req := bindFields(c)

	if err := h.users.Register(c.Request.Context(), req["fullname"], req["email"], req["password"]); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful"})
}

func (h *Handler) login(c *gin.Context) {
	req := bindFields(c)

	user, err := h.users.Login(c.Request.Context(), req["email"], req["password"])
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    UserResponse{Fullname: user.Fullname, Email: user.Email},
	})
}

func (h *Handler) book(c *gin.Context) {
	req := bindFields(c)

	if err := h.bookings.Book(c.Request.Context(), req["email"], req["seva"], req["date"]); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking confirmed successfully"})
}

func (h *Handler) listBookings(c *gin.Context) {
	bookings, err := h.bookings.ListByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = bookingToResponse(bookings[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

// writeError maps service failures onto status codes; every body is {"error": "..."}.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

// bindFields decodes a JSON object body into strings. Numbers and true are
// rendered as text. Absent, null, false, zero and nested values come back
// empty and count as missing. An unreadable body carries no fields.
func bindFields(c *gin.Context) map[string]string {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		return map[string]string{}
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case float64:
			if v != 0 {
				fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		case bool:
			if v {
				fields[key] = "true"
			}
		}
	}
	return fields
}

func bookingToResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		Email: b.Email,
		Seva:  b.Seva,
		Date:  b.Date,
	}
}
