package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/tabi-ops/tabi-api/api/swagger"
	"github.com/tabi-ops/tabi-api/internal/handler"
	"github.com/tabi-ops/tabi-api/internal/middleware"
	"github.com/tabi-ops/tabi-api/internal/models"
	"github.com/tabi-ops/tabi-api/internal/service"
	"github.com/tabi-ops/tabi-api/internal/store"
	"github.com/tabi-ops/tabi-api/pkg/config"
	"github.com/tabi-ops/tabi-api/pkg/kv"
	"github.com/tabi-ops/tabi-api/pkg/logger"
	corsmiddleware "github.com/tabi-ops/tabi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tabi-ops/tabi-api/pkg/middleware/requestid"
)

// @title TABI API
// @version 1.0.0
// @description Workforce overtime (HE) scheduling and distribution
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	backend, err := newBackend(cfg)
	if err != nil {
		logr.Sugar().Fatalw("kv backend init failed", "backend", cfg.KV.Backend, "error", err)
	}

	ctx := context.Background()
	st := store.New(backend, logr)
	if err := st.Load(ctx); err != nil {
		logr.Sugar().Fatalw("state load failed", "error", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		logr.Sugar().Fatalw("password hash failed", "error", err)
	}

	if cfg.Seed.DemoData {
		if seedIfEmpty(ctx, st, string(passwordHash)) {
			logr.Sugar().Infow("demo data seeded")
		}
	}

	authSvc := service.NewAuthService(st, logr, cfg.JWT)
	recordSvc := service.NewRecordService(st, logr, cfg.Allocation.MinutesPerUnit)
	validationSvc := service.NewValidationService(st, logr)
	allocationSvc := service.NewAllocationService(st, logr, cfg.Allocation.ChunkCapMinutes, cfg.Allocation.MinutesPerUnit)
	transferSvc := service.NewTransferService(st, logr, cfg.Allocation.MinutesPerUnit)
	rosterSvc := service.NewRosterService(st, logr)
	auditSvc := service.NewAuditService(st, logr)
	dashboardSvc := service.NewDashboardService(st, logr)
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc)
	recordHandler := handler.NewRecordHandler(recordSvc)
	groupHandler := handler.NewGroupHandler(recordSvc, validationSvc, allocationSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc, cfg.Seed.DefaultPassword)
	auditHandler := handler.NewAuditHandler(auditSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	adminHandler := handler.NewAdminHandler(func(ctx context.Context, actor string) error {
		st.Reset(ctx, store.SeedState(string(passwordHash)))
		return st.Update(ctx, func(state *store.State) error {
			state.Logs = append(state.Logs, models.LogEntry{
				Timestamp: time.Now().UTC(),
				Actor:     actor,
				Action:    models.AuditActionReset,
				Details:   "state wiped and demo data reseeded",
			})
			return nil
		})
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", func(c *gin.Context) {
		metricsSvc.Refresh(st)
		metricsSvc.Handler().ServeHTTP(c.Writer, c.Request)
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	planners := middleware.RequireRoles(models.RoleGerente, models.RoleCoordenador)
	operations := middleware.RequireRoles(models.RoleGerente, models.RoleCoordenador, models.RoleSupervisor)

	authed.GET("/records", recordHandler.List)
	authed.GET("/records/:id", recordHandler.Get)
	authed.POST("/records", planners, recordHandler.Create)
	authed.POST("/records/publish", planners, recordHandler.Publish)
	authed.PUT("/records/:id", planners, recordHandler.Update)
	authed.DELETE("/records/:id", planners, recordHandler.Delete)

	authed.GET("/records/:id/assignments", groupHandler.Assignments)
	authed.PUT("/records/:id/assignments/:assignmentId", operations, groupHandler.EditAssignment)
	authed.DELETE("/records/:id/assignments/:assignmentId", operations, groupHandler.RemoveAssignment)

	authed.GET("/groups", groupHandler.List)
	authed.POST("/groups/validate", operations, groupHandler.Validate)
	authed.POST("/groups/simulate", operations, groupHandler.Simulate)
	authed.POST("/groups/allocate", operations, groupHandler.Allocate)

	authed.GET("/transfer/template", transferHandler.Template)
	authed.GET("/transfer/import", planners, transferHandler.ImportPending)
	authed.POST("/transfer/import", planners, transferHandler.ImportParse)
	authed.DELETE("/transfer/import", planners, transferHandler.ImportDiscard)
	authed.POST("/transfer/import/confirm", planners, transferHandler.ImportConfirm)
	authed.GET("/transfer/export/csv", transferHandler.ExportCSV)
	authed.GET("/transfer/export/pdf", transferHandler.ExportPDF)

	authed.GET("/roster", rosterHandler.List)
	authed.GET("/roster/:matricula", rosterHandler.Get)
	authed.POST("/roster/supervisors", planners, rosterHandler.AddSupervisor)

	authed.GET("/dashboard", dashboardHandler.Aggregate)
	authed.POST("/dashboard/realized", planners, dashboardHandler.FeedRealized)

	authed.GET("/audit", auditHandler.List)
	authed.POST("/admin/reset", middleware.RequireRoles(models.RoleGerente), adminHandler.Reset)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "kv_backend", cfg.KV.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

var timeOfDayPattern = regexp.MustCompile(`^\d{1,2}:\d{1,2}(:\d{2})?$`)

// registerValidations adds the "timeofday" rule used by the interval
// request fields.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			return timeOfDayPattern.MatchString(fl.Field().String())
		})
	}
}

func newBackend(cfg *config.Config) (kv.Backend, error) {
	switch cfg.KV.Backend {
	case config.KVBackendMemory:
		return kv.NewMemory(), nil
	case config.KVBackendFilesystem:
		return kv.NewFilesystem(cfg.KV.Dir)
	case config.KVBackendRedis:
		return kv.NewRedis(cfg.Redis, cfg.KV.Prefix)
	case config.KVBackendPostgres:
		return kv.NewPostgres(cfg.Database)
	default:
		return nil, fmt.Errorf("unknown kv backend: %s", cfg.KV.Backend)
	}
}

func seedIfEmpty(ctx context.Context, st *store.Store, passwordHash string) bool {
	empty := false
	st.View(func(state *store.State) {
		empty = len(state.Collaborators) == 0 && len(state.Records) == 0
	})
	if !empty {
		return false
	}
	st.Reset(ctx, store.SeedState(passwordHash))
	return true
}
