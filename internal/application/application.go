package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/microdesk/ticket-service/internal/config"
	"github.com/microdesk/ticket-service/internal/database"
	"github.com/microdesk/ticket-service/internal/event"
	"github.com/microdesk/ticket-service/internal/handler"
	"github.com/microdesk/ticket-service/internal/model"
	"github.com/microdesk/ticket-service/internal/repository"
	"github.com/microdesk/ticket-service/internal/router"
	"github.com/microdesk/ticket-service/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// API — приложение режима api: HTTP-сервер поверх собранного сервиса.
type API struct {
	cfg     *config.Config
	httpSrv *http.Server
	db      *gorm.DB
}

// NewAPI собирает приложение: миграции, БД, announcer, сервис, роутер.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	healthHandler := handler.NewHealthHandler("ticket-service")
	healthHandler.AddCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	announcer := newAnnouncer(cfg, healthHandler)

	policy := model.DefaultStatusPolicy()
	if cfg.TicketStatuses != "" {
		policy.Allowed = model.ParseStatuses(cfg.TicketStatuses)
	}
	policy.Strict = cfg.TicketStatusStrict

	repo := repository.NewGormRepository(db)
	ticketSvc := service.NewTicketService(repo, announcer, service.WithStatusPolicy(policy))
	ticketHandler := handler.NewTicketHandler(ticketSvc)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(ticketHandler, healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, httpSrv: httpSrv, db: db}, nil
}

// newAnnouncer выбирает канал событий: Kafka при заданных брокерах,
// иначе Redis pub/sub, иначе no-op. Выбор делается здесь, а не внутри ядра.
func newAnnouncer(cfg *config.Config, health *handler.HealthHandler) event.Announcer {
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopicTicket != "" {
		log.Printf("events: kafka topic %s", cfg.KafkaTopicTicket)
		return event.NewKafkaAnnouncer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		health.AddCheck("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		log.Printf("events: redis channel %s", cfg.EventsChannel)
		return event.NewRedisAnnouncer(client, cfg.EventsChannel)
	}
	log.Println("events: no channel configured, announcements disabled")
	return event.Noop{}
}

// Run запускает HTTP-сервер и блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  Tickets:       %s/tickets", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
