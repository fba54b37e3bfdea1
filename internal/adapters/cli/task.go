package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avasylenko/stitchflow/internal/application/common"
	"github.com/avasylenko/stitchflow/internal/application/workflow"
)

// NewTaskCommand creates the task command group (single-task operations)
func NewTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Start, complete, or unassign a task",
	}
	cmd.AddCommand(newTaskStartCommand())
	cmd.AddCommand(newTaskCompleteCommand())
	cmd.AddCommand(newTaskUnassignCommand())
	return cmd
}

func newTaskStartCommand() *cobra.Command {
	var startedBy string

	cmd := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start a pending task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := common.WithLogger(context.Background(), newStdoutLogger(verbose))
			if err := app.Workflow.StartTask(ctx, args[0], startedBy); err != nil {
				return err
			}
			fmt.Println("Task started")
			return nil
		},
	}

	cmd.Flags().StringVar(&startedBy, "by", "", "Who is starting the task (required)")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newTaskCompleteCommand() *cobra.Command {
	var (
		completedBy string
		hours       float64
		quantity    int
		notes       string
		qcPassed    int
		qcRejected  int
		qcRework    int
	)

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Complete a task and unlock the next stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			data := &workflow.CompletionData{
				CompletedBy: completedBy,
				ActualHours: hours,
				Notes:       notes,
			}
			if cmd.Flags().Changed("quantity") {
				data.ActualQuantity = &quantity
			}
			if cmd.Flags().Changed("qc-passed") || cmd.Flags().Changed("qc-rejected") || cmd.Flags().Changed("qc-rework") {
				data.QCResults = &workflow.QCResultsData{
					Passed:       qcPassed,
					Rejected:     qcRejected,
					ReworkNeeded: qcRework,
				}
			}

			ctx := common.WithLogger(context.Background(), newStdoutLogger(verbose))
			if err := app.Workflow.CompleteTask(ctx, args[0], data); err != nil {
				return err
			}
			fmt.Println("Task completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&completedBy, "by", "", "Who completed the task (required)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Actual hours spent (defaults to estimate)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Actual quantity processed")
	cmd.Flags().StringVar(&notes, "notes", "", "Completion notes")
	cmd.Flags().IntVar(&qcPassed, "qc-passed", 0, "QC: units passed")
	cmd.Flags().IntVar(&qcRejected, "qc-rejected", 0, "QC: units rejected outright")
	cmd.Flags().IntVar(&qcRework, "qc-rework", 0, "QC: units needing rework")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func newTaskUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task-id>",
		Short: "Return an in-progress task to the pending queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := common.WithLogger(context.Background(), newStdoutLogger(verbose))
			if err := app.Workflow.UnassignTask(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Task returned to pending")
			return nil
		},
	}
}
