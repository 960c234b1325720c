package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/config"
	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	"github.com/oopspresent/attendance-backend-go/internal/domain/user"
	"github.com/oopspresent/attendance-backend-go/internal/fixtures"
	appHTTP "github.com/oopspresent/attendance-backend-go/internal/handler/http"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/cache"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/cron"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/export"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/jwt"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/oauth"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/sse"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/storage"
	"github.com/oopspresent/attendance-backend-go/internal/repository/memory"
	"github.com/oopspresent/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/oopspresent/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/oopspresent/attendance-backend-go/internal/service/auth"
	"github.com/oopspresent/attendance-backend-go/internal/service/file"
	profileService "github.com/oopspresent/attendance-backend-go/internal/service/profile"
	reportService "github.com/oopspresent/attendance-backend-go/internal/service/report"
	timetableService "github.com/oopspresent/attendance-backend-go/internal/service/timetable"
)

type stores struct {
	tx       database.Transactor
	users    user.UserRepository
	profiles profile.ProfileRepository
	tokens   auth.RefreshTokenRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	defer st.close()

	// Revoked access tokens live in Redis when it is configured
	var revoked jwt.RevocationStore = jwt.NewMemoryRevocationStore()
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Redis unavailable, keeping revoked tokens in memory", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisClient.Close()
			revoked = cache.NewRedisRevocationStore(redisClient)
		}
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production", revoked)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	var GoogleService oauth.GoogleService
	if cfg.OAuth2Google.ClientID != "" {
		GoogleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	var fileStorage storage.FileStorage
	var uploadsDir string
	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		fileStorage = local
		uploadsDir = local.BasePath()
	case "s3":
		fileStorage, err = storage.NewS3Storage(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	hub := sse.NewHub()
	resolver := timetableService.NewResolver(fixtures.DefaultTimetable())
	policy := attendance.Policy{
		TheoryThreshold:    cfg.Policy.TheoryThreshold,
		LabThreshold:       cfg.Policy.LabThreshold,
		SuppressUnrecorded: cfg.Policy.SuppressUnrecorded,
	}

	fileService := file.NewFileService(fileStorage, cfg.Storage.PresignExpiry)
	authService := serviceAuth.NewAuthService(st.tx, st.users, st.profiles, JWTService, st.tokens)
	profileSvc := profileService.NewProfileService(st.profiles, resolver, hub)
	attendanceSvc := attendanceService.NewAttendanceService(st.tx, st.profiles, resolver, hub, policy)
	reportSvc := reportService.NewReportService(attendanceSvc, st.profiles, map[report.Format]report.Renderer{
		report.FormatPDF:  export.NewPDFRenderer(),
		report.FormatXLSX: export.NewXLSXRenderer(),
	}, fileService)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL, cfg.App.Env == "production")
	timetableHandler := appHTTP.NewTimetableHandler(resolver)
	profileHandler := appHTTP.NewProfileHandler(profileSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, JWTService)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			LogLevel:       level,
			AllowedOrigins: cfg.App.AllowedOrigins,
			UploadsDir:     uploadsDir,
		},
		JWTService,
		authHandler,
		timetableHandler,
		profileHandler,
		attendanceHandler,
		reportHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewAuthJobs(st.tokens, revoked).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "store", cfg.Store.Driver, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// openStores picks the repositories for the configured driver
func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Store.Driver {
	case "memory":
		slog.Warn("Using in-memory store, data is lost on restart")
		return stores{
			tx:       memory.NewTransactor(),
			users:    memory.NewUserRepository(),
			profiles: memory.NewProfileRepository(),
			tokens:   memory.NewJWTRepository(),
			close:    func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}
		return stores{
			tx:       postgresql.NewTransactor(db),
			users:    postgresql.NewUserRepository(db),
			profiles: postgresql.NewProfileRepository(db),
			tokens:   postgresql.NewJWTRepository(db),
			close:    db.Close,
		}, nil
	}
}
