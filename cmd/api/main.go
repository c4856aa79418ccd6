// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jerent/carfleet/internal/auth"
	"github.com/jerent/carfleet/internal/collection"
	"github.com/jerent/carfleet/internal/config"
	"github.com/jerent/carfleet/internal/email"
	"github.com/jerent/carfleet/internal/email/mailer"
	"github.com/jerent/carfleet/internal/handler"
	"github.com/jerent/carfleet/internal/middleware"
	"github.com/jerent/carfleet/internal/model"
	"github.com/jerent/carfleet/internal/repository"
	"github.com/jerent/carfleet/internal/service"
	"github.com/jerent/carfleet/internal/session"
	"github.com/jerent/carfleet/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.ProviderSendgrid)
	if err != nil {
		return fmt.Errorf("initializing email service: %w", err)
	}

	// Initialize cache service
	cacheService := service.NewCacheService(service.CacheConfig{
		TTL:         5 * time.Minute,
		CleanupFreq: 1 * time.Minute,
	})
	defer cacheService.Close()

	// Session manager and auth event logging
	sessions := session.NewManager()
	events, cancelEvents := sessions.Subscribe(16)
	defer cancelEvents()
	go func() {
		for ev := range events {
			logger.Info("auth state changed", "kind", string(ev.Kind), "user_id", ev.UserID)
		}
	}()

	// Initialize user service
	userService := service.NewUserService(
		userRepo,
		orgRepo,
		passwordHasher,
		tokenManager,
		mailer.NewAccountMailer(emailService),
		cacheService,
		sessions,
		cfg,
		logger,
	)

	// Media storage
	store := storage.NewDiskStore(cfg.Media.Dir, cfg.Media.BaseURL)
	uploader := storage.NewUploader(store, cfg.Media.Bucket)

	validate := validator.New()

	// Collection hubs, one per entity page. Each hands out a per-organization
	// controller over an organization-scoped repository view, so no tenant
	// ever sees another tenant's rows.
	vehicleHub := collection.NewHub(collection.Descriptor[model.Vehicle]{
		Name: "vehicles",
		ID:   func(v model.Vehicle) uuid.UUID { return v.ID },
		SetOrganization: func(v *model.Vehicle, orgID uuid.UUID) {
			v.OrganizationID = orgID
		},
	}, func(orgID uuid.UUID) collection.Gateway[model.Vehicle] {
		return vehicleRepo.Scoped(orgID)
	}, userService)

	driverHub := collection.NewHub(collection.Descriptor[model.Driver]{
		Name: "drivers",
		ID:   func(d model.Driver) uuid.UUID { return d.ID },
		SetOrganization: func(d *model.Driver, orgID uuid.UUID) {
			d.OrganizationID = orgID
		},
	}, func(orgID uuid.UUID) collection.Gateway[model.Driver] {
		return driverRepo.Scoped(orgID)
	}, userService)

	activityHub := collection.NewHub(collection.Descriptor[model.Activity]{
		Name: "activities",
		ID:   func(a model.Activity) uuid.UUID { return a.ID },
		SetOrganization: func(a *model.Activity, orgID uuid.UUID) {
			a.OrganizationID = orgID
		},
	}, func(orgID uuid.UUID) collection.Gateway[model.Activity] {
		return activityRepo.Scoped(orgID)
	}, userService)

	expenseHub := collection.NewHub(collection.Descriptor[model.Expense]{
		Name: "expenses",
		ID:   func(e model.Expense) uuid.UUID { return e.ID },
		SetOrganization: func(e *model.Expense, orgID uuid.UUID) {
			e.OrganizationID = orgID
		},
	}, func(orgID uuid.UUID) collection.Gateway[model.Expense] {
		return expenseRepo.Scoped(orgID)
	}, userService)

	revenueHub := collection.NewHub(collection.Descriptor[model.Revenue]{
		Name: "revenues",
		ID:   func(rv model.Revenue) uuid.UUID { return rv.ID },
		SetOrganization: func(rv *model.Revenue, orgID uuid.UUID) {
			rv.OrganizationID = orgID
		},
	}, func(orgID uuid.UUID) collection.Gateway[model.Revenue] {
		return revenueRepo.Scoped(orgID)
	}, userService)

	// Invitations carry no organization column; one shared controller.
	invitationCtrl := collection.NewController(collection.Descriptor[model.Invitation]{
		Name: "invitations",
		ID:   func(i model.Invitation) uuid.UUID { return i.ID },
	}, invitationRepo, userService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	profileHandler := handler.NewProfileHandler(userService)
	vehicleHandler := handler.NewEntityHandler("vehicles", vehicleHub, validate)
	driverHandler := handler.NewEntityHandler("drivers", driverHub, validate)
	activityHandler := handler.NewEntityHandler("activities", activityHub, validate)
	expenseHandler := handler.NewEntityHandler("expenses", expenseHub, validate)
	revenueHandler := handler.NewEntityHandler("revenues", revenueHub, validate)
	invitationHandler := handler.NewInvitationHandler(invitationCtrl, validate)
	photosHandler := handler.NewDriverPhotosHandler(driverRepo, uploader, userService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Stored media, served with the same short TTL the uploads are tagged with
	r.Route("/media", func(r chi.Router) {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Media.Dir)))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=3600")
			fs.ServeHTTP(w, r)
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Get("/signup/confirm", authHandler.ConfirmHandler)

			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))

				r.Post("/signup", authHandler.SignupHandler)
				r.Post("/login", authHandler.LoginHandler)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))

			r.Post("/auth/logout", authHandler.LogoutHandler)
			r.Get("/profile", profileHandler.GetHandler)
			r.Patch("/profile", profileHandler.UpdateHandler)

			r.Route("/vehicles", vehicleHandler.Mount)
			r.Route("/drivers", func(r chi.Router) {
				driverHandler.Mount(r)
				r.Post("/{id}/photos", photosHandler.UploadHandler)
			})
			r.Route("/activities", activityHandler.Mount)
			r.Route("/expenses", expenseHandler.Mount)
			r.Route("/revenues", revenueHandler.Mount)
			r.Route("/invitations", func(r chi.Router) {
				r.Get("/", invitationHandler.ListHandler)
				r.Post("/", invitationHandler.CreateHandler)
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					logger.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("{\"error\":\"error encountered\"}"))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
