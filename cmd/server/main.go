package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/config"
	"github.com/iliyamo/coworking-space/internal/database"
	"github.com/iliyamo/coworking-space/internal/handler"
	"github.com/iliyamo/coworking-space/internal/logging"
	"github.com/iliyamo/coworking-space/internal/mail"
	"github.com/iliyamo/coworking-space/internal/metrics"
	"github.com/iliyamo/coworking-space/internal/middleware"
	"github.com/iliyamo/coworking-space/internal/model"
	"github.com/iliyamo/coworking-space/internal/queue"
	"github.com/iliyamo/coworking-space/internal/repository"
	"github.com/iliyamo/coworking-space/internal/router"
	"github.com/iliyamo/coworking-space/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Env)
	slog.SetDefault(log)

	// Amounts travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Error("migrate", "err", err)
			os.Exit(1)
		}
	}

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	stores := service.Stores{
		Tx:               repository.NewTxRunner(db),
		Users:            repository.NewUserRepo(db),
		Spaces:           repository.NewSpaceRepo(db),
		Reservations:     repository.NewReservationRepo(db),
		Unavailabilities: repository.NewUnavailabilityRepo(db),
		Subscriptions:    repository.NewSubscriptionRepo(db),
		Events:           repository.NewEventRepo(db),
		Payments:         repository.NewPaymentRepo(db),
		Invoices:         repository.NewInvoiceRepo(db),
		Reviews:          repository.NewReviewRepo(db),
		Tokens:           repository.NewTokenRepo(db),
		ResetTokens:      repository.NewResetTokenRepo(db),
		Cascade:          repository.NewCascade(),
	}

	// With a broker, mail and activity events go through RabbitMQ and the
	// consumers below deliver them. Without one, mail is sent inline.
	smtp := mail.NewSender(cfg.Mail, log)
	var (
		mailer   service.Mailer = smtp
		activity service.ActivityPublisher
		workers  sync.WaitGroup
	)
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, cfg.Mail.Queue, log)
		mailer, activity = pub, pub
		consumers := []*queue.Consumer{
			{URL: cfg.AMQPURL, Queue: cfg.Mail.Queue, Prefetch: 5, Handle: queue.MailHandler(smtp), Log: log},
			{URL: cfg.AMQPURL, Queue: queue.ReservationQueue, Prefetch: 10,
				Handle: queue.NewActivityLog("logs").Handle, Log: log},
		}
		for _, c := range consumers {
			workers.Add(1)
			go func(c *queue.Consumer) {
				defer workers.Done()
				c.Run(ctx)
			}(c)
		}
	} else {
		log.Info("no broker configured, mail is sent inline and activity events are dropped")
	}

	users := service.NewUserService(stores, cfg.BcryptCost)
	if err := users.EnsureStaff(ctx,
		service.StaffAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Role: model.RoleAdmin},
		service.StaffAccount{Email: cfg.Seed.ReceptionistEmail, Password: cfg.Seed.ReceptionistPass, Role: model.RoleReceptionist},
	); err != nil {
		log.Error("seed staff accounts", "err", err)
		os.Exit(1)
	}

	auth := service.NewAuthService(stores, mailer, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
		ResetTTLHours:  cfg.ResetTTLHours,
		FrontendURL:    cfg.FrontendURL,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestContext(log))
	e.Use(middleware.AccessLog(log))
	e.Use(metrics.Middleware())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("10M"))

	router.Register(e, router.Handlers{
		Health:         handler.NewHealthHandler(db, rdb),
		Auth:           handler.NewAuthHandler(auth),
		Users:          handler.NewUserHandler(users, cfg.UploadDir),
		Spaces:         handler.NewSpaceHandler(service.NewSpaceService(stores)),
		Reservations:   handler.NewReservationHandler(service.NewReservationService(stores, activity)),
		Subscriptions:  handler.NewSubscriptionHandler(service.NewSubscriptionService(stores)),
		Events:         handler.NewEventHandler(service.NewEventService(stores)),
		Payments:       handler.NewPaymentHandler(service.NewPaymentService(stores)),
		Invoices:       handler.NewInvoiceHandler(service.NewInvoiceService(stores, mailer, cfg.BaseURL)),
		Unavailability: handler.NewUnavailabilityHandler(service.NewUnavailabilityService(stores)),
		Reviews:        handler.NewReviewHandler(service.NewReviewService(stores)),
		Contact:        handler.NewContactHandler(service.NewContactService(mailer, cfg.ContactEmail)),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	workers.Wait()
}
