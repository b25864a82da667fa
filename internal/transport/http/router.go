package httptransport

import (
	"log/slog"
	"time"

	"bookingengine/internal/ratelimit"
	"bookingengine/internal/transport/http/handler"
	"bookingengine/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Per-route budgets, keyed by client address. Registration and the password
// flows are tight; reads are generous.
var (
	policyRegister       = ratelimit.Policy{Limit: 5, Window: time.Hour}
	policyLogin          = ratelimit.Policy{Limit: 10, Window: time.Minute}
	policyRecover        = ratelimit.Policy{Limit: 3, Window: time.Hour}
	policyReset          = ratelimit.Policy{Limit: 5, Window: time.Hour}
	policyGetProfile     = ratelimit.Policy{Limit: 60, Window: time.Minute}
	policyUpdateProfile  = ratelimit.Policy{Limit: 30, Window: time.Hour}
	policyChangePassword = ratelimit.Policy{Limit: 5, Window: time.Hour}
	policyCreateBooking  = ratelimit.Policy{Limit: 20, Window: time.Hour}
	policyListBookings   = ratelimit.Policy{Limit: 60, Window: time.Minute}
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bookingHandler *handler.BookingHandler,
	apiKey string,
	jwtKey []byte,
	limiter ratelimit.Limiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.APIKey(apiKey))

	limit := func(route string, p ratelimit.Policy) gin.HandlerFunc {
		return middleware.RateLimit(limiter, route, p)
	}

	auth := r.Group("/auth")
	auth.POST("/register", limit("register", policyRegister), authHandler.Register)
	auth.POST("/token", limit("login", policyLogin), authHandler.Login)
	auth.POST("/recover-password", limit("recover_password", policyRecover), authHandler.RecoverPassword)
	auth.POST("/reset-password", limit("reset_password", policyReset), authHandler.ResetPassword)

	authMW := middleware.Auth(jwtKey)

	users := r.Group("/users", authMW)
	users.GET("/me", limit("get_profile", policyGetProfile), userHandler.Me)
	users.PUT("/me", limit("update_profile", policyUpdateProfile), userHandler.UpdateMe)
	users.PUT("/me/password", limit("change_password", policyChangePassword), userHandler.ChangePassword)

	bookings := r.Group("/bookings", authMW)
	bookings.POST("", limit("create_booking", policyCreateBooking), bookingHandler.Create)
	bookings.GET("", limit("list_bookings", policyListBookings), bookingHandler.List)

	return r
}
