package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/config"
	"github.com/openoutreach/outreach-backend/internal/db"
	"github.com/openoutreach/outreach-backend/internal/handler"
	"github.com/openoutreach/outreach-backend/internal/queue"
	"github.com/openoutreach/outreach-backend/internal/repository"
	"github.com/openoutreach/outreach-backend/internal/scanner"
	"github.com/openoutreach/outreach-backend/internal/sender"
	"github.com/openoutreach/outreach-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	jobStore := queue.NewJobStore(rdb, cfg.Redis.JobTTL)

	amqpConn, err := amqp.Dial(cfg.Broker.URL)
	if err != nil {
		logger.Fatal("connect to broker", zap.Error(err))
	}
	defer amqpConn.Close()

	ch, err := amqpConn.Channel()
	if err != nil {
		logger.Fatal("open broker channel", zap.Error(err))
	}
	defer ch.Close()

	if err := queue.DeclareTaskQueue(ch); err != nil {
		logger.Fatal("declare task queue", zap.Error(err))
	}
	tasks := queue.NewTaskQueue(ch, jobStore)

	businessRepo := &repository.BusinessRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	messageRepo := &repository.MessageRepository{DB: conn}

	presenceScanner := scanner.New(businessRepo, contactRepo, cfg.Scanner, logger)
	emailSender := sender.New(cfg.SMTP, logger)

	dispatcher := &service.Dispatcher{
		Campaigns:  campaignRepo,
		Businesses: businessRepo,
		Contacts:   contactRepo,
		Messages:   messageRepo,
		Sender:     emailSender,
		Logger:     logger,
	}
	campaignService := &service.CampaignService{
		Campaigns:  campaignRepo,
		Messages:   messageRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	businessService := &service.BusinessService{
		Businesses: businessRepo,
		Contacts:   contactRepo,
		Logger:     logger,
	}
	analyticsService := &service.AnalyticsService{
		Businesses: businessRepo,
		Campaigns:  campaignRepo,
		Messages:   messageRepo,
	}

	router := handler.NewRouter(
		&handler.BusinessHandler{Service: businessService, Tasks: tasks, Logger: logger},
		&handler.CampaignHandler{Service: campaignService, Tasks: tasks, Logger: logger},
		&handler.ScannerHandler{Scanner: presenceScanner, Businesses: businessRepo, Tasks: tasks, Logger: logger},
		&handler.TaskHandler{Tasks: tasks},
		&handler.AnalyticsHandler{Service: analyticsService},
	)

	logger.Info("server running", zap.String("address", cfg.Server.Address))
	if err := http.ListenAndServe(cfg.Server.Address, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
