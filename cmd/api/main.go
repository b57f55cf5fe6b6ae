package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/phamquangminh/brewpos-backend/internal/config"
	"github.com/phamquangminh/brewpos-backend/internal/events"
	"github.com/phamquangminh/brewpos-backend/internal/logger"
	"github.com/phamquangminh/brewpos-backend/internal/modules/auth"
	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/customer"
	"github.com/phamquangminh/brewpos-backend/internal/modules/dashboard"
	"github.com/phamquangminh/brewpos-backend/internal/modules/employee"
	"github.com/phamquangminh/brewpos-backend/internal/modules/inventory"
	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
	"github.com/phamquangminh/brewpos-backend/internal/modules/payment"
	"github.com/phamquangminh/brewpos-backend/internal/modules/pos"
	"github.com/phamquangminh/brewpos-backend/internal/modules/promotion"
	"github.com/phamquangminh/brewpos-backend/internal/modules/supplier"
	"github.com/phamquangminh/brewpos-backend/internal/modules/upload"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}
	log.Info("database connected")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// The broker is optional. Without it, completed invoices simply skip
	// event publication and log a warning.
	var publisher invoice.Publisher
	conn, pub, err := events.Setup(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
	if err != nil {
		log.Warn("amqp unavailable, events disabled", zap.Error(err))
	} else {
		defer conn.Close()
		publisher = pub
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	branch := cfg.Server.BranchID

	// ── Identity ────────────────────────────────────────────
	employeeRepo := employee.NewPostgresRepository(db)
	employeeService := employee.NewService(employeeRepo)

	authService := auth.NewService(employeeRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & promotions ────────────────────────────────
	catalogRepo := catalog.NewCachedRepository(
		catalog.NewPostgresRepository(db), rdb,
		time.Duration(cfg.Redis.TTLSecs)*time.Second, log)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	promotionRepo := promotion.NewPostgresRepository(db)
	promotionService := promotion.NewService(promotionRepo)

	// ── Customers ───────────────────────────────────────────
	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)
	customer.NewHandler(customerService).RegisterRoutes(router)

	// ── Invoices & payments ─────────────────────────────────
	invoiceRepo := invoice.NewPostgresRepository(db)
	invoiceService := invoice.NewService(invoiceRepo, catalogRepo, customerService, publisher, log)
	invoice.NewHandler(invoiceService, branch).RegisterRoutes(router)

	gateway := payment.NewVNPayGateway(cfg.VNPay.TmnCode, cfg.VNPay.HashSecret,
		cfg.VNPay.PayURL, cfg.VNPay.ReturnURL)
	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo, gateway, invoiceService, log)
	payment.NewHandler(paymentService).RegisterRoutes(router)

	// ── Cart terminals ──────────────────────────────────────
	posStore := pos.NewStore(log)
	posService := pos.NewService(posStore, catalogService, customerService,
		promotionService, invoiceService, branch, log)
	pos.NewHandler(posService).RegisterRoutes(router)

	// ── Back office (bearer token required) ─────────────────
	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo, branch, log)

	supplierRepo := supplier.NewPostgresRepository(db)
	supplierService := supplier.NewService(supplierRepo)

	dashboardRepo := dashboard.NewPostgresRepository(db)
	dashboardService := dashboard.NewService(dashboardRepo, branch)

	uploadService, err := upload.NewService(cfg.Upload.Dir, log)
	if err != nil {
		log.Fatal("init upload dir", zap.Error(err))
	}
	uploadHandler := upload.NewHandler(uploadService, cfg.Upload.Dir)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWT.Secret))
		employee.NewHandler(employeeService).RegisterRoutes(r)
		promotion.NewHandler(promotionService).RegisterRoutes(r)
		inventory.NewHandler(inventoryService).RegisterRoutes(r)
		supplier.NewHandler(supplierService).RegisterRoutes(r)
		dashboard.NewHandler(dashboardService).RegisterRoutes(r)
		uploadHandler.RegisterRoutes(r)
	})
	uploadHandler.RegisterStatic(router)

	log.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("branch", branch))
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
