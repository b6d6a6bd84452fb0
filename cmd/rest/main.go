package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"fundoo-notes-be/internal/controller"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/repository"
	"fundoo-notes-be/internal/service"
	"fundoo-notes-be/pkg/cache"
	"fundoo-notes-be/pkg/database"
	"fundoo-notes-be/pkg/mailer"
	"fundoo-notes-be/pkg/objectstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	db := database.ConnectDB(os.Getenv("DB_CONNECTION_STRING"))

	userRepository := repository.NewUserRepository(db)
	noteRepository := repository.NewNoteRepository(db)
	collaboratorRepository := repository.NewCollaboratorRepository(db)
	labelRepository := repository.NewLabelRepository(db)
	requestLogRepository := repository.NewRequestLogRepository(db)

	app.Use(cors.New())
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(serverutils.RequestLogMiddleware(requestLogRepository))

	redisClient, err := cache.Connect(context.Background(), os.Getenv("REDIS_URL"))
	if err != nil {
		panic(err)
	}
	noteCacheTTL := time.Duration(0)
	if raw := os.Getenv("NOTE_CACHE_TTL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			panic(err)
		}
		noteCacheTTL = time.Duration(seconds) * time.Second
	}

	s3Config := objectstore.Config{
		AccessKey: os.Getenv("IMAGE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("IMAGE_S3_SECRET_KEY"),
		Endpoint:  os.Getenv("IMAGE_S3_ENDPOINT"),
		Region:    os.Getenv("IMAGE_S3_REGION"),
	}
	objectStore, err := objectstore.NewClient(s3Config)
	if err != nil {
		panic(err)
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		panic(err)
	}
	mailSender, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("MAIL_FROM"),
	})
	if err != nil {
		panic(err)
	}

	tokens := serverutils.NewTokenManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
		48*time.Hour,
	)

	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	reminderTopic := os.Getenv("REMINDER_TOPIC_NAME")
	mailTopic := os.Getenv("MAIL_TOPIC_NAME")

	reminderPublisher := service.NewPublisherService(reminderTopic, pubSub)
	mailPublisher := service.NewPublisherService(mailTopic, pubSub)

	reminderConsumer := service.NewReminderConsumerService(pubSub, reminderTopic, noteRepository, userRepository, mailSender)
	mailConsumer := service.NewMailConsumerService(pubSub, mailTopic, mailSender)

	accessPolicy := service.NewAccessPolicy(collaboratorRepository)
	noteCache := service.NewNoteCacheService(noteRepository, labelRepository, cache.NewRedisCache(redisClient), noteCacheTTL)
	noteService := service.NewNoteService(
		noteRepository,
		collaboratorRepository,
		labelRepository,
		userRepository,
		accessPolicy,
		noteCache,
		reminderPublisher,
		objectStore,
		os.Getenv("IMAGE_S3_BUCKET"),
		db,
	)
	labelService := service.NewLabelService(labelRepository, noteCache)
	authService := service.NewAuthService(userRepository, tokens, mailPublisher, os.Getenv("APP_BASE_URL"))

	authMiddleware := serverutils.AuthMiddleware(tokens)

	userController := controller.NewUserController(authService)
	noteController := controller.NewNoteController(noteService, authMiddleware)
	labelController := controller.NewLabelController(labelService, authMiddleware)

	api := app.Group("/api")
	userController.RegisterRoutes(api)
	noteController.RegisterRoutes(api)
	labelController.RegisterRoutes(api)

	if err := reminderConsumer.Consume(context.Background()); err != nil {
		panic(err)
	}
	if err := mailConsumer.Consume(context.Background()); err != nil {
		panic(err)
	}

	log.Fatal(app.Listen(":3000"))
}
