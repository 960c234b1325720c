package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/oopspresent/attendance-backend-go/internal/handler/http/middleware"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/jwt"
)

// RouterOptions carries the deployment details the router needs
type RouterOptions struct {
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// UploadsDir is served under /uploads when reports are stored on local disk
	UploadsDir string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	timetableHandler TimetableHandler,
	profileHandler ProfileHandler,
	attendanceHandler AttendanceHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "oops-present"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			// the access token is optional on logout
			r.With(jwtauth.Verifier(JWTService.JWTAuth())).Post("/logout", authHandler.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		r.Route("/timetable", func(r chi.Router) {
			r.Get("/options", timetableHandler.Options)
			r.Get("/day", timetableHandler.Day)
		})

		// SSE clients cannot send headers, the stream authenticates with a query token
		r.Get("/attendance/stream", attendanceHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", profileHandler.GetMe)
				r.Put("/settings", profileHandler.UpdateSettings)
				r.Put("/name", profileHandler.UpdateName)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/days/{date}", attendanceHandler.GetDay)
				r.Put("/days/{date}", attendanceHandler.MarkDay)
				r.Get("/stats", attendanceHandler.Stats)
				r.Get("/defaulters", attendanceHandler.Defaulters)
				r.Get("/stream-token", attendanceHandler.StreamToken)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/chart", reportHandler.Chart)
				r.Get("/export", reportHandler.Export)
				r.Post("/archive", reportHandler.Archive)
			})
		})
	})

	return r
}
