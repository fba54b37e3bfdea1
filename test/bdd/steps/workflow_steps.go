package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/avasylenko/stitchflow/internal/adapters/persistence"
	"github.com/avasylenko/stitchflow/internal/application/workflow"
	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/production"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
	"github.com/avasylenko/stitchflow/internal/infrastructure/database"
)

// workflowContext carries the state of one scenario: a fresh in-memory
// database, the wired services, the order under test, and the last error.
type workflowContext struct {
	clock   *shared.MockClock
	tasks   *persistence.GormTaskRepository
	orders  *persistence.GormOrderRepository
	service *workflow.Service
	queries *workflow.QueryService
	order   *order.Order
	lastErr error
}

// InitializeWorkflowScenario registers the task workflow step definitions.
func InitializeWorkflowScenario(sc *godog.ScenarioContext) {
	wc := &workflowContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		db, err := database.NewTestConnection()
		if err != nil {
			return ctx, err
		}
		wc.clock = shared.NewMockClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
		wc.tasks = persistence.NewGormTaskRepository(db)
		wc.orders = persistence.NewGormOrderRepository(db)
		uow := persistence.NewGormUnitOfWork(db)
		generator := production.NewGenerator(production.DefaultCatalog(), wc.clock, 8)
		wc.service = workflow.NewService(uow, wc.tasks, wc.orders, generator, wc.clock, 0.10, nil)
		wc.queries = workflow.NewQueryService(wc.tasks, wc.clock)
		wc.order = nil
		wc.lastErr = nil
		return ctx, nil
	})

	sc.Step(`^a production order for (\d+) garments$`, wc.aProductionOrder)
	sc.Step(`^the task chain has been generated$`, wc.generateChain)
	sc.Step(`^I generate the task chain$`, wc.generateChain)
	sc.Step(`^(\d+) tasks should exist for the order$`, wc.tasksShouldExist)
	sc.Step(`^the "([^"]*)" task should be (pending|blocked|in_progress|completed)$`, wc.taskShouldHaveStatus)
	sc.Step(`^I complete the "([^"]*)" task$`, wc.completeTask)
	sc.Step(`^I try to complete the "([^"]*)" task$`, wc.tryCompleteTask)
	sc.Step(`^the completion should be rejected$`, wc.completionRejected)
	sc.Step(`^the pipeline has progressed to quality control$`, wc.progressToQC)
	sc.Step(`^quality control reports (\d+) passed and (\d+) needing rework$`, wc.qcReports)
	sc.Step(`^the re-inspection reports (\d+) passed and (\d+) needing rework$`, wc.reinspectionReports)
	sc.Step(`^a "([^"]*)" task should exist for (\d+) units$`, wc.taskShouldExistForUnits)
	sc.Step(`^the order should be in production$`, wc.orderInProduction)
	sc.Step(`^the order should be ready for delivery$`, wc.orderReadyForDelivery)
	sc.Step(`^the "([^"]*)" queue should list "([^"]*)" before "([^"]*)"$`, wc.queueOrder)
}

func (wc *workflowContext) aProductionOrder(quantity int) error {
	wc.order = order.NewOrder("order-1", "ORD-001", "Atelier Nord", quantity)
	return wc.orders.Create(context.Background(), wc.order)
}

func (wc *workflowContext) generateChain() error {
	_, wc.lastErr = wc.service.GenerateOrderTasks(context.Background(), wc.order.ID())
	return wc.lastErr
}

func (wc *workflowContext) findTask(taskType string) (*production.Task, error) {
	task, err := wc.tasks.FindByOrderAndType(context.Background(), wc.order.ID(), production.TaskType(taskType))
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("no %s task found for order %s", taskType, wc.order.ID())
	}
	return task, nil
}

func (wc *workflowContext) tasksShouldExist(count int) error {
	tasks, err := wc.tasks.FindByOrder(context.Background(), wc.order.ID())
	if err != nil {
		return err
	}
	if len(tasks) != count {
		return fmt.Errorf("expected %d tasks, found %d", count, len(tasks))
	}
	return nil
}

func (wc *workflowContext) taskShouldHaveStatus(taskType, status string) error {
	task, err := wc.findTask(taskType)
	if err != nil {
		return err
	}
	if task.Status() != production.TaskStatus(status) {
		return fmt.Errorf("expected %s task to be %s, got %s", taskType, status, task.Status())
	}
	return nil
}

// complete advances the clock so recurring rework tasks get distinct creation
// times, then completes the given task with the supplied payload.
func (wc *workflowContext) complete(taskType string, data *workflow.CompletionData) error {
	wc.clock.Advance(time.Hour)
	task, err := wc.findTask(taskType)
	if err != nil {
		return err
	}
	return wc.service.CompleteTask(context.Background(), task.ID(), data)
}

func (wc *workflowContext) completeTask(taskType string) error {
	return wc.complete(taskType, &workflow.CompletionData{CompletedBy: "worker"})
}

func (wc *workflowContext) tryCompleteTask(taskType string) error {
	wc.lastErr = wc.complete(taskType, &workflow.CompletionData{CompletedBy: "worker"})
	return nil
}

func (wc *workflowContext) completionRejected() error {
	if wc.lastErr == nil {
		return fmt.Errorf("expected the completion to be rejected, but it succeeded")
	}
	wc.lastErr = nil
	return nil
}

func (wc *workflowContext) progressToQC() error {
	for _, t := range []string{"tech_spec", "procurement", "cutting", "sewing"} {
		if err := wc.completeTask(t); err != nil {
			return err
		}
	}
	return nil
}

func (wc *workflowContext) qcReports(passed, rework int) error {
	return wc.complete("qc", &workflow.CompletionData{
		CompletedBy: "inspector",
		QCResults:   &workflow.QCResultsData{Passed: passed, ReworkNeeded: rework},
	})
}

func (wc *workflowContext) reinspectionReports(passed, rework int) error {
	return wc.complete("qc_rework", &workflow.CompletionData{
		CompletedBy: "inspector",
		QCResults:   &workflow.QCResultsData{Passed: passed, ReworkNeeded: rework},
	})
}

func (wc *workflowContext) taskShouldExistForUnits(taskType string, units int) error {
	task, err := wc.findTask(taskType)
	if err != nil {
		return err
	}
	if task.TargetQuantity() == nil {
		return fmt.Errorf("%s task carries no target quantity", taskType)
	}
	if *task.TargetQuantity() != units {
		return fmt.Errorf("expected %s task for %d units, got %d", taskType, units, *task.TargetQuantity())
	}
	return nil
}

func (wc *workflowContext) orderStatus() (order.Status, error) {
	o, err := wc.orders.FindByID(context.Background(), wc.order.ID())
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", fmt.Errorf("order %s not found", wc.order.ID())
	}
	return o.Status(), nil
}

func (wc *workflowContext) orderInProduction() error {
	status, err := wc.orderStatus()
	if err != nil {
		return err
	}
	if status != order.StatusInProduction {
		return fmt.Errorf("expected order to be in_production, got %s", status)
	}
	return nil
}

func (wc *workflowContext) orderReadyForDelivery() error {
	status, err := wc.orderStatus()
	if err != nil {
		return err
	}
	if status != order.StatusReadyForDelivery {
		return fmt.Errorf("expected order to be ready_for_delivery, got %s", status)
	}
	return nil
}

func (wc *workflowContext) queueOrder(role, first, second string) error {
	queue, err := wc.queries.TasksByRole(context.Background(), production.Role(role))
	if err != nil {
		return err
	}
	firstIdx, secondIdx := -1, -1
	for i, task := range queue {
		switch string(task.Type()) {
		case first:
			if firstIdx == -1 {
				firstIdx = i
			}
		case second:
			if secondIdx == -1 {
				secondIdx = i
			}
		}
	}
	if firstIdx == -1 || secondIdx == -1 {
		return fmt.Errorf("queue for %s is missing %s or %s", role, first, second)
	}
	if firstIdx > secondIdx {
		return fmt.Errorf("expected %s before %s in the %s queue", first, second, role)
	}
	return nil
}
