package router

import (
	"errors"
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nexusfeed/backend/internal/contexts"
	"github.com/nexusfeed/backend/internal/handlers"
	"github.com/nexusfeed/backend/internal/middleware"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/services"
	"github.com/nexusfeed/backend/internal/visibility"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware and the error body shape
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler
	log.Println("Global middleware configured.")
}

// errorHandler renders every error as {"error": message}
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}
	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil, in which case JWT auth guards the API.
func SetupRoutes(e *echo.Echo, db *gorm.DB, notifier *notify.Notifier, firebaseAuthClient *auth.Client, jwtSecret string) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Mention{},
		&models.Block{},
		&models.Notification{},
		&models.FriendRequest{},
		&models.Group{},
		&models.GroupMember{},
		&models.Event{},
		&models.EventAttendee{},
		&models.Listing{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	mentionRepo := repositories.NewPostgresMentionRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)
	groupRepo := repositories.NewPostgresGroupRepository(db)
	eventRepo := repositories.NewPostgresEventRepository(db)
	listingRepo := repositories.NewPostgresListingRepository(db)
	cascadeRepo := repositories.NewPostgresCascadeRepository(db)

	filter := visibility.NewFilter(db)

	contentService := services.NewContentService(
		postRepo, commentRepo, likeRepo, userRepo,
		groupRepo, eventRepo, listingRepo, cascadeRepo,
		filter, notifier,
	)
	mentionService := services.NewMentionService(
		postRepo, commentRepo, userRepo, mentionRepo, filter, notifier,
	)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	if firebaseAuthClient != nil {
		api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient, userRepo))
		log.Println("Firebase authentication middleware applied to /api/v1 group.")
	} else {
		api.Use(middleware.JWTAuthMiddleware(jwtSecret))
		log.Println("JWT authentication middleware applied to /api/v1 group.")
	}

	// Content routes, one group per context
	feedHandler := handlers.NewContentHandler(contentService, contexts.Feed)
	feedHandler.RegisterContentRoutes(api.Group("/feed"))

	groupHandler := handlers.NewContentHandler(contentService, contexts.Group)
	groupHandler.RegisterContentRoutes(api.Group("/groups/:group_id"))

	eventContentHandler := handlers.NewContentHandler(contentService, contexts.Event)
	eventContentHandler.RegisterContentRoutes(api.Group("/events/:event_id"))

	marketplaceHandler := handlers.NewContentHandler(contentService, contexts.Marketplace)
	marketplaceHandler.RegisterContentRoutes(api.Group("/marketplace/:listing_id"))
	log.Println("Content routes configured for all contexts.")

	// Mention routes
	mentionHandler := handlers.NewMentionHandler(mentionService)
	mentionHandler.RegisterMentionRoutes(api)
	log.Println("Mention routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// User search and block routes
	userHandler := handlers.NewUserHandler(userRepo, blockRepo, filter)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, userRepo, filter, notifier)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Event invite routes
	eventHandler := handlers.NewEventHandler(eventRepo, userRepo, filter, notifier)
	eventHandler.RegisterEventRoutes(api)
	log.Println("Event invite routes configured.")

	log.Println("All routes configured.")
}
