package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	"github.com/cmlabs-hris/hris-attendance/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hris-attendance/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/publisher"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/window"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-attendance/internal/service/employee"
	scheduleService "github.com/cmlabs-hris/hris-attendance/internal/service/schedule"
	toleranceService "github.com/cmlabs-hris/hris-attendance/internal/service/tolerance"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName:  cfg.Telemetry.ServiceName,
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	slog.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	var events attendance.EventPublisher = publisher.Noop{}
	if cfg.Events.SQSQueueURL != "" {
		sqsClient, err := publisher.NewSQSClient(ctx, cfg.Events.AWSRegion, cfg.Events.AWSEndpoint)
		if err != nil {
			return err
		}
		events = publisher.NewSQSPublisher(sqsClient, cfg.Events.SQSQueueURL)
		slog.Info("Publishing attendance events", "queue_url", cfg.Events.SQSQueueURL, "local", cfg.IsLocalDev())
	}

	tx := postgresql.NewTransactor(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	missedShiftRepo := postgresql.NewMissedShiftRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)

	var evaluatorOpts []window.Option
	if cfg.Attendance.StrictExitWindow {
		evaluatorOpts = append(evaluatorOpts, window.WithStrictExitWindow())
	}
	evaluator := window.NewEvaluator(evaluatorOpts...)
	hub := sse.NewHub()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.DeviceExpiration)
	toleranceSvc := toleranceService.NewToleranceService(policyRepo, cfg.Attendance.DefaultTolerance)
	scheduleSvc := scheduleService.NewScheduleService(tx, workScheduleRepo, shiftRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, workScheduleRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		toleranceSvc,
		evaluator,
		hub,
		events,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, missedShiftRepo, employeeRepo, shiftRepo).
		RegisterJobs(scheduler, cfg.Attendance.CronInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.LogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
		JWTService,
		appHTTP.Handlers{
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, JWTService, hub),
			Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
			Tolerance:  appHTTP.NewToleranceHandler(toleranceSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           otelhttp.NewHandler(router, "api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "strict_exit_window", cfg.Attendance.StrictExitWindow)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}
