package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartrail/train-reservation-backend/internal/config"
	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/handlers"
	"github.com/smartrail/train-reservation-backend/internal/middleware"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/internal/services"
	"github.com/smartrail/train-reservation-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartRail Train Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	stationRepo := database.NewStationRepository(db)
	edgeRepo := database.NewRouteEdgeRepository(db)
	templateRepo := database.NewRouteTemplateRepository(db)
	trainRepo := database.NewTrainRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	stopRepo := database.NewRouteStopRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	localTicketRepo := database.NewLocalTicketRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := services.NewAuthService(userRepo, jwtService, cfg.Security, logger)
	stationService := services.NewStationService(stationRepo, edgeRepo, userRepo, logger)
	routeService := services.NewRouteService(stationRepo, edgeRepo, templateRepo, trainRepo, stopRepo, cfg.Booking, logger)
	trainService := services.NewTrainService(trainRepo, rng, logger)
	scheduleService := services.NewScheduleService(scheduleRepo, trainRepo, templateRepo, routeService, cfg.Booking, logger)
	delayService := services.NewDelayService(stopRepo, trainRepo, logger)
	seatService := services.NewSeatService(services.NewRepoSeatStore(trainRepo, stopRepo, bookingRepo), logger)
	paymentService := services.NewPaymentService(paymentRepo, bookingRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, trainRepo, stopRepo, seatService, paymentService, rng, logger)
	localTicketService := services.NewLocalTicketService(localTicketRepo, trainRepo, stopRepo, rng, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	stationHandler := handlers.NewStationHandler(stationService, logger)
	routeHandler := handlers.NewRouteHandler(routeService, logger)
	trainHandler := handlers.NewTrainHandler(trainService, logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, logger)
	delayHandler := handlers.NewDelayHandler(delayService, stationService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	localTicketHandler := handlers.NewLocalTicketHandler(localTicketService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	authn := middleware.AuthMiddleware(jwtService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Station routes
		stations := v1.Group("/stations")
		{
			stations.GET("", middleware.OptionalAuth(jwtService), stationHandler.List)
			stations.GET("/:code", stationHandler.Get)

			stationsAdmin := stations.Group("")
			stationsAdmin.Use(authn, adminOnly)
			{
				stationsAdmin.POST("", stationHandler.Create)
				stationsAdmin.POST("/:code/assign-master", stationHandler.AssignMaster)
				stationsAdmin.DELETE("/:code", stationHandler.Deactivate)
			}
		}

		// Route network: edges, templates and train route expansion
		routes := v1.Group("/routes")
		{
			routes.GET("/edges", routeHandler.ListEdges)
			routes.GET("/shortest-path", routeHandler.ShortestPath)
			routes.GET("/templates", routeHandler.ListTemplates)
			routes.GET("/train/:number", routeHandler.GetTrainRoute)

			routesAdmin := routes.Group("")
			routesAdmin.Use(authn, adminOnly)
			{
				routesAdmin.POST("/edges", routeHandler.CreateEdge)
				routesAdmin.POST("/edges/insert", routeHandler.InsertStation)
				routesAdmin.POST("/templates", routeHandler.CreateTemplate)
				routesAdmin.POST("/train-route", routeHandler.CreateTrainRoute)
			}
		}

		// Train routes
		trains := v1.Group("/trains")
		{
			trains.GET("", trainHandler.List)
			trains.GET("/:number", trainHandler.Get)

			trainsAdmin := trains.Group("")
			trainsAdmin.Use(authn, adminOnly)
			{
				trainsAdmin.POST("", trainHandler.Create)
				trainsAdmin.DELETE("/:number", trainHandler.Deactivate)
			}

			// Actual-time reporting; station masters are restricted to their
			// own station inside the handler
			trainsOps := trains.Group("")
			trainsOps.Use(authn, middleware.RequireRole(models.RoleAdmin, models.RoleStationMaster))
			{
				trainsOps.PATCH("/:number/stations/:code/actual", delayHandler.UpdateActualTimes)
			}
		}

		// Schedule routes
		schedules := v1.Group("/schedules")
		{
			schedules.GET("/train/:number", scheduleHandler.ListByTrain)

			schedulesAdmin := schedules.Group("")
			schedulesAdmin.Use(authn, adminOnly)
			{
				schedulesAdmin.POST("", scheduleHandler.Create)
				schedulesAdmin.DELETE("/:id", scheduleHandler.Deactivate)
			}
		}

		// Booking routes; search and availability are public
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/search", bookingHandler.Search)
			bookings.GET("/availability", bookingHandler.Availability)

			bookingsAuth := bookings.Group("")
			bookingsAuth.Use(authn)
			{
				bookingsAuth.POST("", bookingHandler.Create)
				bookingsAuth.GET("", bookingHandler.History)
				bookingsAuth.GET("/:pnr", bookingHandler.Get)
				bookingsAuth.POST("/:pnr/cancel", bookingHandler.Cancel)
				bookingsAuth.POST("/:pnr/payment", paymentHandler.Confirm)
			}
		}

		// Local (unreserved) ticket routes
		localTickets := v1.Group("/local-tickets")
		localTickets.Use(authn)
		{
			localTickets.POST("", localTicketHandler.Purchase)
			localTickets.GET("", localTicketHandler.History)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
