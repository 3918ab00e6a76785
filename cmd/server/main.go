package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/content"
	"hrportal/internal/domain/directory"
	"hrportal/internal/domain/employee"
	"hrportal/internal/domain/leave"
	"hrportal/internal/platform/config"
	"hrportal/internal/platform/db"
	"hrportal/internal/platform/graph"
	"hrportal/internal/platform/jobs"
	"hrportal/internal/platform/metrics"
	adminhandler "hrportal/internal/transport/http/handlers/admin"
	attendancehandler "hrportal/internal/transport/http/handlers/attendance"
	authhandler "hrportal/internal/transport/http/handlers/auth"
	contenthandler "hrportal/internal/transport/http/handlers/content"
	employeeshandler "hrportal/internal/transport/http/handlers/employees"
	leavehandler "hrportal/internal/transport/http/handlers/leave"
	usershandler "hrportal/internal/transport/http/handlers/users"
	"hrportal/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authStore := auth.NewStore(pool)
	authService := auth.NewService(authStore)
	employeeStore := employee.NewStore(pool)
	employeeService := employee.NewService(employeeStore, authStore)
	attendanceStore := attendance.NewStore(pool)
	attendanceService := attendance.NewService(attendanceStore, employeeStore)
	leaveStore := leave.NewStore(pool)
	leaveService := leave.NewService(leaveStore, employeeStore)
	contentService := content.NewService(content.NewStore(pool))

	var graphClient *graph.Client
	if cfg.GraphEnabled {
		graphClient = graph.New(cfg)
	}
	var mailer directory.Mailer
	var dirSource directory.Directory
	if graphClient != nil {
		mailer = graphClient
		dirSource = graphClient
	}
	syncService := directory.NewService(dirSource, mailer, authStore, employeeStore, cfg.LoginURL)

	jobsService := jobs.New(pool)
	jobsService.Start(ctx)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recover)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, authStore, cfg.JWTSecret).RegisterRoutes(r)
		usershandler.NewHandler(authStore).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeService, mailer, cfg.LoginURL).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, attendanceStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService).RegisterRoutes(r)
		contenthandler.NewHandler(contentService).RegisterRoutes(r)
		adminhandler.NewHandler(syncService, jobsService, mailer, employeeStore, attendanceStore, collector, cfg.LoginURL).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
