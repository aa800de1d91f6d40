package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance AttendanceHandler
	Schedule   ScheduleHandler
	Tolerance  ToleranceHandler
	Employee   EmployeeHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Authenticated by the short-lived token in the query string
		r.Get("/attendance/stream", h.Attendance.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireCompany)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceRegister))
					r.Post("/register", h.Attendance.Register)
					r.Post("/preview", h.Attendance.Preview)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).
					Get("/my", h.Attendance.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
					r.Get("/stream/token", h.Attendance.GetStreamToken)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).
						Get("/", h.Attendance.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceApprove))
						r.Post("/approve", h.Attendance.Approve)
						r.Post("/reject", h.Attendance.Reject)
					})

					r.With(middleware.RequirePermission(user.PermissionAttendanceDelete)).
						Delete("/", h.Attendance.Delete)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleView))
					r.Get("/", h.Schedule.ListWorkSchedules)
					r.Get("/{id}", h.Schedule.GetWorkSchedule)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
					r.Post("/", h.Schedule.CreateWorkSchedule)
					r.Put("/{id}/shifts", h.Schedule.ReplaceShifts)
					r.Delete("/{id}", h.Schedule.DeleteWorkSchedule)
				})
			})

			r.Route("/tolerances", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Tolerance.List)
					r.Get("/{positionID}", h.Tolerance.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionToleranceManage))
					r.Put("/{positionID}", h.Tolerance.Upsert)
					r.Delete("/{positionID}", h.Tolerance.Delete)
				})
			})

			r.Route("/employees/{id}", func(r chi.Router) {
				r.Get("/", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/pin", h.Employee.SetPIN)
					r.Put("/schedule", h.Employee.AssignSchedule)
				})
			})
		})
	})
	return r
}
