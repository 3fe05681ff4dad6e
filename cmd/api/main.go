package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-go-api/internal/config"
	"github.com/noah-isme/classroom-go-api/internal/database"
	"github.com/noah-isme/classroom-go-api/internal/handler"
	"github.com/noah-isme/classroom-go-api/internal/middleware"
	"github.com/noah-isme/classroom-go-api/internal/models"
	"github.com/noah-isme/classroom-go-api/internal/repository"
	"github.com/noah-isme/classroom-go-api/internal/router"
	"github.com/noah-isme/classroom-go-api/internal/service"
	cloud "github.com/noah-isme/classroom-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Class{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.AssignmentAttachment{},
		&models.Submission{},
		&models.SubmissionFile{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizOption{},
		&models.QuizSubmission{},
		&models.QuizAnswer{},
		&models.Discussion{},
		&models.DiscussionReply{},
		&models.DiscussionLike{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	archiveStore := repository.NewArchiveStore(db)
	tokenStore := repository.NewTokenStore(redisClient)

	activityService := service.NewActivityService(activityRepo, logger)
	archiveService := service.NewArchiveService(archiveStore, activityService, logger)
	authService := service.NewAuthService(userRepo, tokenStore, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	roleService := service.NewRoleService(roleRepo, validate, logger)
	userService := service.NewUserService(userRepo, roleRepo, validate, logger)
	classService := service.NewClassService(classRepo, userRepo, assignmentRepo, quizRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, classRepo, uploader, activityService, validate, logger)
	quizService := service.NewQuizService(quizRepo, classRepo, activityService, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, classRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    25 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		RoleHandler:       handler.NewRoleHandler(roleService, archiveService, logger),
		UserHandler:       handler.NewUserHandler(userService, archiveService, logger),
		ClassHandler:      handler.NewClassHandler(classService, archiveService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, archiveService, logger),
		QuizHandler:       handler.NewQuizHandler(quizService, archiveService, logger),
		DiscussionHandler: handler.NewDiscussionHandler(discussionService, archiveService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, tokenStore),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
