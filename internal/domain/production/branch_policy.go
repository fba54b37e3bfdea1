package production

import (
	"fmt"
	"time"
)

// QCResults carries the inspection outcome reported when a qc-family task
// completes.
type QCResults struct {
	Passed       int
	Rejected     int
	ReworkNeeded int
}

// BranchOutcome is the decision a branch policy makes on task completion.
type BranchOutcome struct {
	// Spawn is an extra task to create in the same commit, nil if none.
	// Spawned tasks are pending immediately, never blocked.
	Spawn *Task

	// DeferUnlock holds back the completed task's autoNext unlock. Used when
	// quality control finds defects: final_check stays blocked until the
	// re-inspection passes clean.
	DeferUnlock bool

	// Unlock names an additional stage to unblock, beyond autoNext. Used when
	// a re-inspection passes clean and releases the deferred final_check.
	Unlock TaskType
}

// BranchContext is the input to a branch decision.
type BranchContext struct {
	Task *Task
	QC   *QCResults
	Now  time.Time
}

type branchFunc func(ctx BranchContext) (BranchOutcome, error)

// BranchPolicy maps stage types to their completion branch rules. The table is
// closed over the TaskType enum; stage types without special behavior simply
// have no entry and follow the plain autoNext unlock.
//
// The quality loop it implements:
//
//	qc --(rework needed)--> rework --> qc_rework --(rework needed)--> rework ...
//	qc/qc_rework --(clean pass)--> final_check unlocked
//
// final_check is never bypassed; packaging is only reachable through it.
type BranchPolicy struct {
	generator *Generator
	policies  map[TaskType]branchFunc
}

// NewBranchPolicy builds the branch rule table.
func NewBranchPolicy(generator *Generator) *BranchPolicy {
	p := &BranchPolicy{generator: generator}
	p.policies = map[TaskType]branchFunc{
		TaskTypeQC:       p.inspectionBranch,
		TaskTypeQCRework: p.inspectionBranch,
		TaskTypeRework:   p.reworkBranch,
	}
	return p
}

// Evaluate applies the branch rule for the completed task, if any.
func (p *BranchPolicy) Evaluate(ctx BranchContext) (BranchOutcome, error) {
	fn, ok := p.policies[ctx.Task.Type()]
	if !ok {
		return BranchOutcome{}, nil
	}
	return fn(ctx)
}

// inspectionBranch handles qc and qc_rework completions. A defective quantity
// spawns one fresh rework task and defers the final_check unlock; a clean pass
// lets the unlock through (for qc_rework, which has no autoNext, it names
// final_check explicitly).
func (p *BranchPolicy) inspectionBranch(ctx BranchContext) (BranchOutcome, error) {
	if ctx.QC == nil {
		return BranchOutcome{}, fmt.Errorf("inspection task %s completed without qc results", ctx.Task.ID())
	}

	if ctx.QC.ReworkNeeded > 0 {
		spawn, err := p.spawn(TaskTypeRework, ctx.Task, ctx.QC.ReworkNeeded, ctx.Now)
		if err != nil {
			return BranchOutcome{}, err
		}
		return BranchOutcome{Spawn: spawn, DeferUnlock: true}, nil
	}

	if ctx.Task.Type() == TaskTypeQCRework {
		// Clean re-inspection releases the final_check that the original qc
		// completion held back.
		return BranchOutcome{Unlock: TaskTypeFinalCheck}, nil
	}
	return BranchOutcome{}, nil
}

// reworkBranch handles rework completions: the corrected quantity always goes
// back through a fresh re-inspection.
func (p *BranchPolicy) reworkBranch(ctx BranchContext) (BranchOutcome, error) {
	qty := ctx.Task.TargetQuantity()
	if qty == nil {
		return BranchOutcome{}, fmt.Errorf("rework task %s has no target quantity", ctx.Task.ID())
	}
	spawn, err := p.spawn(TaskTypeQCRework, ctx.Task, *qty, ctx.Now)
	if err != nil {
		return BranchOutcome{}, err
	}
	return BranchOutcome{Spawn: spawn}, nil
}

func (p *BranchPolicy) spawn(t TaskType, parent *Task, quantity int, now time.Time) (*Task, error) {
	stage, ok := p.generator.Catalog().StageFor(t)
	if !ok {
		return nil, fmt.Errorf("no catalog entry for stage type %s", t)
	}
	est := p.generator.Catalog().EstimateHours(t, quantity)
	due := p.generator.BranchDueDate(now, est)
	return NewBranchTask(stage, parent.OrderID(), parent.OrderNumber(), quantity, est, due, now), nil
}
