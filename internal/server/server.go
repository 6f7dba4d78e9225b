package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"flipfit/internal/admin"
	"flipfit/internal/auth"
	"flipfit/internal/booking"
	"flipfit/internal/config"
	"flipfit/internal/gym"
	"flipfit/internal/notify"
	"flipfit/internal/user"
	"flipfit/internal/wallet"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitTTL))

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	gymHandler := gym.NewHandler(db)
	walletHandler := wallet.NewHandler(db)
	bookingHandler := booking.NewHandler(db, notifier)
	adminHandler := admin.NewHandler(db, notifier)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID/slots", gymHandler.ListSlots)
		protected.POST("/bookings", bookingHandler.Reserve)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/wallet", walletHandler.GetWallet)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
	}

	owner := router.Group("/owner")
	owner.Use(authMiddleware, auth.RequireRole(auth.RoleOwner))
	{
		owner.POST("/gyms", gymHandler.CreateGym)
		owner.GET("/gyms", gymHandler.ListMyGyms)
		owner.POST("/gyms/:gymID/slots", gymHandler.CreateSlot)
		owner.GET("/gyms/:gymID/slots", gymHandler.ListSlots)
	}

	adm := router.Group("/admin")
	adm.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		adm.GET("/users", adminHandler.ListUsers)
		adm.DELETE("/users/:userID", adminHandler.DeleteUser)
		adm.DELETE("/gyms/:gymID", adminHandler.DeleteGym)
		adm.POST("/gyms/:gymID/approve", adminHandler.ApproveGym)
		adm.POST("/owners/:ownerID/approve", adminHandler.ApproveOwner)
		adm.GET("/gyms/pending", adminHandler.ListPendingGyms)
		adm.GET("/owners/pending", adminHandler.ListPendingOwners)
		adm.GET("/slots/:slotID/bookings", bookingHandler.ListBySlot)
		adm.GET("/gyms/:gymID/bookings", bookingHandler.ListByGym)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests before returning.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
