package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"inkwell-notes/inkwell/broker"
	"inkwell-notes/inkwell/config"
	"inkwell-notes/inkwell/database"
	"inkwell-notes/inkwell/middleware"
	"inkwell-notes/inkwell/routes"
	"inkwell-notes/inkwell/security"
	"inkwell-notes/inkwell/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	codec, err := security.NewContentCodec(cfg.NoteEncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize content encryption: %v", err)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize NATS producer with better error handling
	natsAvailable := true
	err = broker.InitProducer(cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize NATS producer: %v", err)
		log.Println("The application will continue, but event delivery is disabled")
		natsAvailable = false
	} else {
		defer broker.CloseProducer()
	}

	// Create and initialize the notifier service
	notifierService := services.NewNotifierService()
	services.NotifierServiceInstance = notifierService
	notifierService.Start(cfg) // This runs in a goroutine
	defer notifierService.Stop()

	// Only drain the outbox when NATS is available
	if natsAvailable {
		dispatcherService := services.NewEventDispatcherService(db)
		services.EventDispatcherServiceInstance = dispatcherService
		dispatcherService.Start()
		defer dispatcherService.Stop()
	} else {
		log.Println("Event dispatcher is disabled due to NATS unavailability")
	}

	// Initialize authentication service
	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	// Initialize user service with auth service dependency
	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	// Initialize note-domain services
	services.NoteServiceInstance = services.NewNoteService(codec)
	services.TagServiceInstance = services.NewTagService()
	services.LabelServiceInstance = services.NewLabelService()
	services.CategoryServiceInstance = services.NewCategoryService()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Public surface: authentication and shared notes need no token.
	public := router.Group("/api/v1")
	public.Use(middleware.RateLimitMiddleware(limiter))
	routes.RegisterAuthRoutes(public, db, authService, userService)
	routes.RegisterPublicNoteRoutes(public, db, services.NoteServiceInstance)

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authService))
	protected.Use(middleware.RateLimitMiddleware(limiter))
	routes.RegisterUserRoutes(protected, db, userService)
	routes.RegisterNoteRoutes(protected, db, services.NoteServiceInstance)
	routes.RegisterTagRoutes(protected, db, services.TagServiceInstance)
	routes.RegisterLabelRoutes(protected, db, services.LabelServiceInstance)
	routes.RegisterCategoryRoutes(protected, db, services.CategoryServiceInstance)
	routes.RegisterWebSocketRoutes(protected, notifierService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
