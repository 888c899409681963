package main

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/openoutreach/outreach-backend/internal/config"
	"github.com/openoutreach/outreach-backend/internal/db"
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

	ctx := context.Background()
	worker := queue.NewWorker(jobStore, logger)

	worker.Handle(queue.TaskProcessCSV, func(ctx context.Context, jobID string, payload json.RawMessage) (any, error) {
		var p queue.ProcessCSVPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return businessService.ImportCSV(strings.NewReader(p.CSVContent), func(current, total int) {
			if err := jobStore.SetProgress(ctx, jobID, current, total); err != nil {
				logger.Error("report csv progress", zap.String("job_id", jobID), zap.Error(err))
			}
		})
	})

	worker.Handle(queue.TaskScanBusiness, func(ctx context.Context, jobID string, payload json.RawMessage) (any, error) {
		var p queue.ScanBusinessPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		ok := presenceScanner.Scan(ctx, p.BusinessID)
		return map[string]any{"business_id": p.BusinessID, "scanned": ok}, nil
	})

	worker.Handle(queue.TaskScanAllPending, func(ctx context.Context, jobID string, payload json.RawMessage) (any, error) {
		scanned := presenceScanner.ScanAllPendingWithProgress(ctx, func(current, total int) {
			if err := jobStore.SetProgress(ctx, jobID, current, total); err != nil {
				logger.Error("report scan progress", zap.String("job_id", jobID), zap.Error(err))
			}
		})
		return map[string]any{"scanned_count": scanned}, nil
	})

	worker.Handle(queue.TaskDispatchCampaign, func(ctx context.Context, jobID string, payload json.RawMessage) (any, error) {
		var p queue.DispatchCampaignPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return campaignService.Send(ctx, p.CampaignID, p.BusinessIDs, p.Platforms)
	})

	deliveries, err := ch.Consume(
		queue.TaskQueueName,
		"",    // consumer tag
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Fatal("register consumer", zap.Error(err))
	}

	logger.Info("worker running, waiting for tasks")
	worker.Run(ctx, deliveries)
}
