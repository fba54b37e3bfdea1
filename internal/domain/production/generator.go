package production

import (
	"fmt"
	"math"
	"time"

	"github.com/avasylenko/stitchflow/internal/domain/order"
	"github.com/avasylenko/stitchflow/internal/domain/shared"
)

// DefaultWorkdayHours is the standard shop-floor workday used for due-date
// computation.
const DefaultWorkdayHours = 8.0

// Generator instantiates the full task chain for a new order: one task per
// catalog stage, dependencies wired, due dates computed, the first stage
// pending and every other stage blocked.
//
// The generator is pure; persisting the batch (all-or-nothing) is the
// caller's responsibility.
type Generator struct {
	catalog      *Catalog
	clock        shared.Clock
	workdayHours float64
}

// NewGenerator creates a task generator. A workdayHours of zero falls back to
// the 8-hour default.
func NewGenerator(catalog *Catalog, clock shared.Clock, workdayHours float64) *Generator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if workdayHours <= 0 {
		workdayHours = DefaultWorkdayHours
	}
	return &Generator{catalog: catalog, clock: clock, workdayHours: workdayHours}
}

// Generate produces the ordered task chain for an order.
func (g *Generator) Generate(o *order.Order) ([]*Task, error) {
	if o == nil {
		return nil, fmt.Errorf("order is nil")
	}
	if o.ID() == "" {
		return nil, fmt.Errorf("order has no id")
	}
	if o.Quantity() <= 0 {
		return nil, fmt.Errorf("order %s has non-positive quantity %d", o.OrderNumber(), o.Quantity())
	}

	now := g.clock.Now()
	stages := g.catalog.Stages()
	tasks := make([]*Task, 0, len(stages))

	for i, stage := range stages {
		est := g.catalog.EstimateHours(stage.Type, o.Quantity())
		due := g.dueDate(now, i, est)
		tasks = append(tasks, NewTask(stage, o.ID(), o.OrderNumber(), o.Quantity(), est, due, now))
	}

	return tasks, nil
}

// dueDate places a stage's deadline at the end of the workday its estimated
// effort lands in, assuming each earlier stage consumes one workday slot.
func (g *Generator) dueDate(now time.Time, sequenceIndex int, estimatedHours float64) time.Time {
	days := math.Ceil((float64(sequenceIndex)*g.workdayHours + estimatedHours) / g.workdayHours)
	return now.AddDate(0, 0, int(days))
}

// BranchDueDate computes the deadline for a branch task spawned now.
// Branch tasks have no sequence position; they get one workday slot sized to
// their own effort.
func (g *Generator) BranchDueDate(now time.Time, estimatedHours float64) time.Time {
	return g.dueDate(now, 0, estimatedHours)
}

// Catalog exposes the catalog the generator was built with.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}
