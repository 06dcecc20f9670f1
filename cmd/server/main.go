package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/bluewingapp/bluewing/configs"
	"github.com/bluewingapp/bluewing/internal/api/handlers"
	"github.com/bluewingapp/bluewing/internal/api/middleware"
	job "github.com/bluewingapp/bluewing/internal/jobs"
	"github.com/bluewingapp/bluewing/internal/media"
	"github.com/bluewingapp/bluewing/internal/provider"
	"github.com/bluewingapp/bluewing/internal/queue"
	"github.com/bluewingapp/bluewing/internal/repository"
	"github.com/bluewingapp/bluewing/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	queueClient := queue.NewClient(cfg.RedisURI)
	defer queueClient.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	postTargetRepo := repository.NewPostTargetRepository(db)
	postVariantRepo := repository.NewPostVariantRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	postTargetMediaRepo := repository.NewPostTargetMediaRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	registry := provider.NewRegistry(*cfg)
	validator := media.NewValidator(media.DefaultLimits())

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	postService := service.NewPostService(db, postRepo, postTargetRepo, postVariantRepo, socialAccountRepo, postMediaRepo, validator)
	mediaService := service.NewMediaService(postMediaRepo, r2Service)
	accountService := service.NewAccountService(*cfg, socialAccountRepo, registry)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)
	reconciler := service.NewPostReconciler(postRepo, postTargetRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/update", post.UpdatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	mediaHandler := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", mediaHandler.UploadMedia)
	api.Post("/media/remove", mediaHandler.RemoveMedia)

	account := handlers.NewAccountHandler(accountService)
	api.Post("/accounts/connect", account.ConnectAccount)
	api.Get("/accounts", account.ListAccounts)
	api.Get("/accounts/fields", account.CredentialFields)
	api.Post("/accounts/remove", account.RemoveAccount)

	// cron jobs
	dispatchJob := job.NewDispatchDuePostsJob(postRepo, postTargetRepo, queueClient)

	//queue
	queueW := queue.NewQueue(postRepo, postTargetRepo, postVariantRepo, socialAccountRepo, postMediaRepo, postTargetMediaRepo, registry, r2Service, reconciler, cfg.SecretKey)

	c := cron.New()
	c.AddFunc(cfg.DispatchInterval, dispatchJob.Dispatch)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency:    10,
			RetryDelayFunc: queue.FixedRetryDelay,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishTarget, queueW.HandlePublishTargetTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
