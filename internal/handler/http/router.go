package http

import (
	"log/slog"
	"os"

	"github.com/bistrohq/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-bistrohq"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Clock terminal endpoints identify the employee by id and PIN,
		// not by a logged-in session.
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", attendanceHandler.ListPending)
					r.Put("/{id}", attendanceHandler.Update)
					r.Post("/{id}/approve", attendanceHandler.Approve)
					r.Post("/{id}/reject", attendanceHandler.Reject)
				})
			})
		})

		// Admin only
		r.Route("/payroll", func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.AdminOnly)

			r.Get("/preview", payrollHandler.Preview)
			r.Post("/generate", payrollHandler.Generate)
			r.Get("/", payrollHandler.List)
			r.Get("/{id}", payrollHandler.Get)
			r.Post("/{id}/mark-paid", payrollHandler.MarkPaid)
		})
	})
	return r
}
