package workflow

import (
	"github.com/go-playground/validator/v10"

	"github.com/avasylenko/stitchflow/internal/domain/production"
)

// QCResultsData is the inspection payload for qc-family completions.
type QCResultsData struct {
	Passed       int `json:"passed" validate:"min=0"`
	Rejected     int `json:"rejected" validate:"min=0"`
	ReworkNeeded int `json:"reworkNeeded" validate:"min=0"`
}

// CompletionData carries the actuals reported when a task is completed.
// ActualHours of zero defaults to the task's estimate; ActualQuantity is only
// meaningful for quantity-bearing stages.
type CompletionData struct {
	CompletedBy    string         `json:"completedBy" validate:"required"`
	ActualHours    float64        `json:"actualHours" validate:"min=0"`
	ActualQuantity *int           `json:"actualQuantity,omitempty"`
	Notes          string         `json:"notes"`
	QCResults      *QCResultsData `json:"qcResults,omitempty"`
}

func (d *CompletionData) toDomainQC() *production.QCResults {
	if d.QCResults == nil {
		return nil
	}
	return &production.QCResults{
		Passed:       d.QCResults.Passed,
		Rejected:     d.QCResults.Rejected,
		ReworkNeeded: d.QCResults.ReworkNeeded,
	}
}

// completionValidator validates a completion payload against a task before
// any mutation happens. Structural checks use the validator tags; the
// business rules (qc payload presence, quantity tolerance) are explicit.
type completionValidator struct {
	validate          *validator.Validate
	quantityTolerance float64
}

func newCompletionValidator(quantityTolerance float64) *completionValidator {
	return &completionValidator{
		validate:          validator.New(),
		quantityTolerance: quantityTolerance,
	}
}

// Check returns the first validation failure, or nil. The task is untouched.
func (v *completionValidator) Check(task *production.Task, data *CompletionData) error {
	if err := v.validate.Struct(data); err != nil {
		return &production.ErrTaskValidation{
			TaskID: task.ID(),
			Field:  "completionData",
			Reason: err.Error(),
		}
	}

	if production.IsQCStage(task.Type()) && data.QCResults == nil {
		return &production.ErrTaskValidation{
			TaskID: task.ID(),
			Field:  "qcResults",
			Reason: "inspection completion requires qc results",
		}
	}

	if data.ActualQuantity != nil && task.TargetQuantity() != nil {
		limit := float64(*task.TargetQuantity()) * (1 + v.quantityTolerance)
		if float64(*data.ActualQuantity) > limit {
			return &production.ErrTaskValidation{
				TaskID: task.ID(),
				Field:  "actualQuantity",
				Reason: "exceeds target quantity beyond tolerance",
			}
		}
	}

	return nil
}
