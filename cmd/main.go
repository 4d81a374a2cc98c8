package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/franciscosanchezn/gin-foodgram-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-foodgram-api/internal/auth"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/controllers"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/media"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/repository"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config
)

// @title Foodgram API
// @version 1.0
// @description Recipe sharing API: recipes, favorites, shopping cart and subscriptions
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Token" or "Bearer" followed by a space and the auth token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()
	applyLogLevel(configuration.LogLevel)

	// Initialize database connection
	db = setupDatabase(configuration)

	// Initialize services and controllers
	router := setupRouter(configuration, db)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}

// applyLogLevel overrides the environment level with LOG_LEVEL in every package logger
func applyLogLevel(value string) {
	level, err := log.ParseLevel(value)
	if err != nil {
		log.WithError(err).Warnf("Invalid LOG_LEVEL %q, keeping %s", value, log.GetLevel())
		level = log.GetLevel()
	}
	log.SetLevel(level)
	for _, set := range []func(log.Level){
		auth.SetLogLevel,
		controllers.SetLogLevel,
		database.SetLogLevel,
		media.SetLogLevel,
		middleware.SetLogLevel,
		services.SetLogLevel,
	} {
		set(level)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the configured database and migrates the schema
// unless AUTO_MIGRATE is false
func setupDatabase(conf *config.Config) *gorm.DB {
	conn, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		URL:      conf.DatabaseURL,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	if config.GetEnvAsType("AUTO_MIGRATE", true) {
		checkPanicErr(database.Migrate(conn))
	} else {
		log.Info("AUTO_MIGRATE disabled, skipping schema migration")
	}
	return conn
}

// setupMediaStore returns the configured image store
func setupMediaStore(conf *config.Config) media.Store {
	if conf.MediaBackend == "s3" {
		store, err := media.NewS3Store(context.Background(), media.S3Config{
			Bucket:    conf.S3Bucket,
			Region:    conf.S3Region,
			Endpoint:  conf.S3Endpoint,
			AccessKey: conf.S3AccessKey,
			SecretKey: conf.S3SecretKey,
			PublicURL: conf.S3PublicURL,
		})
		checkPanicErr(err)
		return store
	}
	return media.NewLocalStore(conf.MediaRoot, conf.MediaURL)
}

// setupRouter wires services and controllers into the Gin router
func setupRouter(conf *config.Config, conn *gorm.DB) *gin.Engine {
	ctx := context.Background()
	repos := repository.New(conn)
	store := setupMediaStore(conf)

	users := services.NewUserService(repos, store)
	clients := services.NewClientService(conn)
	_, created, err := clients.EnsureClient(ctx, models.OAuthClient{
		ID:         conf.OAuthClientID,
		Name:       "Foodgram web",
		Domain:     conf.SiteURL,
		Scopes:     "read write",
		GrantTypes: "password",
	}, conf.OAuthClientSecret)
	checkPanicErr(err)
	if created {
		log.WithField("client_id", conf.OAuthClientID).Info("First-party OAuth client registered")
	}

	oauth := auth.NewOAuthService(conn, users, auth.Options{
		JWTSecret:    conf.JWTSecret,
		TokenTTL:     time.Duration(conf.TokenTTLHours) * time.Hour,
		ClientID:     conf.OAuthClientID,
		ClientSecret: conf.OAuthClientSecret,
	})
	if purged, err := oauth.PurgeExpired(ctx); err != nil {
		log.WithError(err).Warn("Failed to purge expired tokens")
	} else if purged > 0 {
		log.WithField("tokens", purged).Info("Expired tokens purged")
	}

	paginator := controllers.Paginator{DefaultLimit: conf.PageSize, MaxLimit: 100}
	handlers := controllers.Handlers{
		Auth:    controllers.NewAuthController(oauth),
		Clients: controllers.NewClientController(clients),
		Recipes: controllers.NewRecipeController(
			services.NewRecipeService(repos, store, services.RecipeRules{
				MaxAmount:      conf.MaxAmount,
				MaxCookingTime: conf.MaxCookingTime,
			}, conf.SiteURL),
			services.NewFavoriteService(repos),
			services.NewShoppingCartService(repos),
			services.NewShoppingService(repos.ShoppingCart, services.Aggregation(conf.ShoppingAggregation)),
			paginator,
		),
		Users:      controllers.NewUserController(users, services.NewSubscriptionService(repos), paginator),
		Reference:  controllers.NewReferenceController(services.NewReferenceService(repos)),
		OAuthToken: oauth.HandleToken,
	}

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	controllers.RegisterRoutes(router, handlers, middleware.Authenticate([]byte(conf.JWTSecret), oauth))

	// Uploaded images are served directly when stored on local disk
	if conf.MediaBackend == "local" && strings.HasPrefix(conf.MediaURL, "/") {
		router.Static(conf.MediaURL, conf.MediaRoot)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}
