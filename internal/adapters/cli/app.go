package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/avasylenko/stitchflow/internal/adapters/metrics"
	"github.com/avasylenko/stitchflow/internal/adapters/persistence"
	"github.com/avasylenko/stitchflow/internal/application/workflow"
	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
	"github.com/avasylenko/stitchflow/internal/infrastructure/config"
	"github.com/avasylenko/stitchflow/internal/infrastructure/database"
)

// App wires configuration, storage, and the workflow services for CLI use
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Orders   *persistence.GormOrderRepository
	Tasks    *persistence.GormTaskRepository
	Workflow *workflow.Service
	Queries  *workflow.QueryService
	Metrics  *metrics.WorkflowMetricsCollector
}

// NewApp builds the application from configuration
func NewApp(configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	clock := shared.NewRealClock()
	catalog := production.NewCatalog(cfg.Workflow.BuildEffortRates())
	generator := production.NewGenerator(catalog, clock, cfg.Workflow.WorkdayHours)

	taskRepo := persistence.NewGormTaskRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	uow := persistence.NewGormUnitOfWork(db)

	collector := metrics.NewWorkflowMetricsCollector()
	if cfg.Metrics.Enabled {
		if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	svc := workflow.NewService(uow, taskRepo, orderRepo, generator, clock,
		cfg.Workflow.QuantityTolerance, collector)
	queries := workflow.NewQueryService(taskRepo, clock)

	return &App{
		Config:   cfg,
		DB:       db,
		Orders:   orderRepo,
		Tasks:    taskRepo,
		Workflow: svc,
		Queries:  queries,
		Metrics:  collector,
	}, nil
}

// Close releases the database connection
func (a *App) Close() {
	_ = database.Close(a.DB)
}
