package production

import "math"

// TaskType identifies one stage of the production pipeline
type TaskType string

const (
	// TaskTypeTechSpec - Technologist prepares the technical specification
	TaskTypeTechSpec TaskType = "tech_spec"

	// TaskTypeProcurement - Procurement manager sources fabric and accessories
	TaskTypeProcurement TaskType = "procurement"

	// TaskTypeCutting - Cutter produces pattern pieces from fabric
	TaskTypeCutting TaskType = "cutting"

	// TaskTypeSewing - Sewing brigade assembles the garments
	TaskTypeSewing TaskType = "sewing"

	// TaskTypeQC - Quality control inspects the sewn batch
	TaskTypeQC TaskType = "qc"

	// TaskTypeFinalCheck - Technologist signs off the finished batch
	TaskTypeFinalCheck TaskType = "final_check"

	// TaskTypePackaging - Packer prepares the batch for delivery (terminal stage)
	TaskTypePackaging TaskType = "packaging"

	// TaskTypeRework - Corrective sewing for defects found by quality control.
	// Not part of the linear pipeline; spawned by the QC branch policy.
	TaskTypeRework TaskType = "rework"

	// TaskTypeQCRework - Re-inspection of reworked quantity.
	// Spawned when a rework task completes.
	TaskTypeQCRework TaskType = "qc_rework"
)

// Role identifies the organizational role a task is assigned to
type Role string

const (
	RoleTechnologist       Role = "technologist"
	RoleProcurementManager Role = "procurement_manager"
	RoleCutter             Role = "cutter"
	RoleBrigadeLeader      Role = "brigade_leader"
	RoleQCSpecialist       Role = "qc_specialist"
	RolePacker             Role = "packer"
)

// TaskStatus represents the current status of a task
type TaskStatus string

const (
	// TaskStatusBlocked - Dependencies not yet completed; cannot be started
	TaskStatusBlocked TaskStatus = "blocked"

	// TaskStatusPending - Unblocked and waiting for a worker to start it
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress - A worker has started the task
	TaskStatusInProgress TaskStatus = "in_progress"

	// TaskStatusCompleted - Finished; immutable from here on
	TaskStatusCompleted TaskStatus = "completed"
)

// TaskPriority orders tasks within a role's work queue. It never preempts
// scheduling; it is a sort key only.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Weight returns the numeric sort weight for a priority (high=3, medium=2, low=1).
func (p TaskPriority) Weight() int {
	switch p {
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// EffortRate describes how estimated hours are derived for one stage type.
// Fixed stages ignore quantity; per-unit stages multiply by order quantity
// and usually round up to whole hours.
type EffortRate struct {
	FixedHours   float64
	PerUnitHours float64
	RoundUp      bool
}

// Hours computes the estimated effort for the given quantity.
func (r EffortRate) Hours(quantity int) float64 {
	if r.FixedHours > 0 {
		return r.FixedHours
	}
	h := float64(quantity) * r.PerUnitHours
	if r.RoundUp {
		return math.Ceil(h)
	}
	return h
}

// EffortRates maps stage types to their effort formulas. Factory-specific
// overrides come from configuration; the pipeline topology does not.
type EffortRates map[TaskType]EffortRate

// DefaultEffortRates returns the standard factory rates.
func DefaultEffortRates() EffortRates {
	return EffortRates{
		TaskTypeTechSpec:    {FixedHours: 2},
		TaskTypeProcurement: {FixedHours: 4},
		TaskTypeCutting:     {PerUnitHours: 0.5, RoundUp: true},
		TaskTypeSewing:      {PerUnitHours: 2, RoundUp: true},
		TaskTypeQC:          {PerUnitHours: 0.25, RoundUp: true},
		TaskTypeFinalCheck:  {FixedHours: 1},
		TaskTypePackaging:   {PerUnitHours: 0.1, RoundUp: true},
		TaskTypeRework:      {PerUnitHours: 1},
		TaskTypeQCRework:    {PerUnitHours: 0.25, RoundUp: true},
	}
}

// StageDefinition is one row of the task catalog: the static description of a
// pipeline stage type.
type StageDefinition struct {
	Type            TaskType
	Role            Role
	Priority        TaskPriority
	Dependencies    []TaskType
	AutoNext        TaskType // successor unlocked on completion; empty = terminal
	QuantityBearing bool     // stage tracks target/actual quantity
}

// Terminal returns true if this stage unlocks no successor.
func (s StageDefinition) Terminal() bool {
	return s.AutoNext == ""
}

// Catalog is the single source of truth for pipeline sequencing. Stage order
// and dependency topology are fixed business logic; only effort rates vary per
// factory.
type Catalog struct {
	stages []StageDefinition
	byType map[TaskType]StageDefinition
	rates  EffortRates
}

// NewCatalog builds a catalog with the given effort rates. Missing rate
// entries fall back to the defaults.
func NewCatalog(rates EffortRates) *Catalog {
	merged := DefaultEffortRates()
	for t, r := range rates {
		merged[t] = r
	}

	stages := []StageDefinition{
		{Type: TaskTypeTechSpec, Role: RoleTechnologist, Priority: TaskPriorityHigh,
			Dependencies: nil, AutoNext: TaskTypeProcurement},
		{Type: TaskTypeProcurement, Role: RoleProcurementManager, Priority: TaskPriorityMedium,
			Dependencies: []TaskType{TaskTypeTechSpec}, AutoNext: TaskTypeCutting},
		{Type: TaskTypeCutting, Role: RoleCutter, Priority: TaskPriorityMedium,
			Dependencies: []TaskType{TaskTypeProcurement}, AutoNext: TaskTypeSewing, QuantityBearing: true},
		{Type: TaskTypeSewing, Role: RoleBrigadeLeader, Priority: TaskPriorityHigh,
			Dependencies: []TaskType{TaskTypeCutting}, AutoNext: TaskTypeQC, QuantityBearing: true},
		{Type: TaskTypeQC, Role: RoleQCSpecialist, Priority: TaskPriorityMedium,
			Dependencies: []TaskType{TaskTypeSewing}, AutoNext: TaskTypeFinalCheck, QuantityBearing: true},
		{Type: TaskTypeFinalCheck, Role: RoleTechnologist, Priority: TaskPriorityMedium,
			Dependencies: []TaskType{TaskTypeQC}, AutoNext: TaskTypePackaging},
		{Type: TaskTypePackaging, Role: RolePacker, Priority: TaskPriorityLow,
			Dependencies: []TaskType{TaskTypeFinalCheck}, QuantityBearing: true},
	}

	byType := make(map[TaskType]StageDefinition, len(stages)+2)
	for _, s := range stages {
		byType[s.Type] = s
	}

	// Rework stages are triggered by the branch policy, not positional, so they
	// carry no dependencies and no autoNext. Re-inspection outcomes drive the
	// final_check unlock instead.
	byType[TaskTypeRework] = StageDefinition{
		Type: TaskTypeRework, Role: RoleBrigadeLeader, Priority: TaskPriorityHigh,
		QuantityBearing: true,
	}
	byType[TaskTypeQCRework] = StageDefinition{
		Type: TaskTypeQCRework, Role: RoleQCSpecialist, Priority: TaskPriorityHigh,
		QuantityBearing: true,
	}

	return &Catalog{stages: stages, byType: byType, rates: merged}
}

// DefaultCatalog builds a catalog with the standard factory rates.
func DefaultCatalog() *Catalog {
	return NewCatalog(nil)
}

// Stages returns the linear pipeline stages in declared sequence order.
// Rework stage types are excluded; they are never generated up front.
func (c *Catalog) Stages() []StageDefinition {
	return c.stages
}

// StageFor returns the definition for a stage type, including rework types.
func (c *Catalog) StageFor(t TaskType) (StageDefinition, bool) {
	s, ok := c.byType[t]
	return s, ok
}

// EstimateHours computes the estimated effort for a stage type and quantity.
func (c *Catalog) EstimateHours(t TaskType, quantity int) float64 {
	return c.rates[t].Hours(quantity)
}

// IsQCStage returns true for stage types whose completion carries inspection
// results (qc and qc_rework).
func IsQCStage(t TaskType) bool {
	return t == TaskTypeQC || t == TaskTypeQCRework
}
