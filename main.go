package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolmanagement_backend/internals/configs"
	database "schoolmanagement_backend/internals/databases"
	"schoolmanagement_backend/internals/features/finance/invoices/scheduler"
	paymentService "schoolmanagement_backend/internals/features/finance/payments/service"
	helper "schoolmanagement_backend/internals/helpers"
	middlewares "schoolmanagement_backend/internals/middlewares"
	"schoolmanagement_backend/internals/repositories"
	"schoolmanagement_backend/internals/repositories/memory"
	routes "schoolmanagement_backend/internals/route"
	"schoolmanagement_backend/internals/seeds"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	cfg := configs.LoadEnv()
	configs.InitLogger()

	// 🔌 repository: postgres (default) atau memory untuk dev lokal
	var (
		repo repositories.Repository
		db   *gorm.DB
	)
	switch cfg.DBDriver {
	case "memory":
		log.Warn("DB_DRIVER=memory, data hilang saat restart")
		repo = memory.New()
	default:
		log.Infof("DB target %s", database.DescribeTarget(cfg))
		var err error
		db, err = database.ConnectDB(cfg)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		database.TunePool(db)
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("❌ %v", err)
		}
		repo = repositories.NewGormRepository(db)
	}

	// ✅ MIDTRANS (opsional)
	var gateway paymentService.Gateway
	if cfg.MidtransServerKey != "" {
		gateway = paymentService.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	}

	svc := routes.NewServices(repo, cfg, gateway)

	if cfg.RunSeeds {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seeds.RunAllSeeds(ctx, cfg, svc.Products); err != nil {
			log.WithError(err).Error("seed gagal")
		}
		cancel()
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler:          helper.ErrorHandler,
	})
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	middlewares.SetupMiddlewares(app, cfg)
	routes.SetupRoutes(app, svc, cfg)

	// ⏱ billing bulanan
	var billingCron *scheduler.BillingScheduler
	if cfg.BillingCronEnabled {
		s, err := scheduler.NewBillingScheduler(svc.Billing, cfg.BillingCron, cfg.Timezone)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		s.Start()
		log.Infof("next billing run at %s", s.Next().Format(time.RFC3339))
		billingCron = s
	}

	go func() {
		log.Infof("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: HTTP → cron → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if billingCron != nil {
		billingCron.Stop(ctx)
	}
	database.Close(db)
}
