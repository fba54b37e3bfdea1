package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avasylenko/stitchflow/internal/application/common"
	"github.com/avasylenko/stitchflow/internal/domain/production"
)

// NewTasksCommand creates the tasks command group (bulk operations and queries)
func NewTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Generate and query production tasks",
	}
	cmd.AddCommand(newTasksGenerateCommand())
	cmd.AddCommand(newTasksListCommand())
	return cmd
}

func newTasksGenerateCommand() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the task chain for an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := common.WithLogger(context.Background(), newStdoutLogger(verbose))
			tasks, err := app.Workflow.GenerateOrderTasks(ctx, orderID)
			if err != nil {
				return err
			}
			fmt.Printf("Generated %d tasks:\n", len(tasks))
			printTasks(tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Order ID (required)")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func newTasksListCommand() *cobra.Command {
	var (
		role    string
		orderID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by role queue or by order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role == "" && orderID == "" {
				return fmt.Errorf("either --role or --order is required")
			}

			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := context.Background()
			var tasks []*production.Task
			if role != "" {
				tasks, err = app.Queries.TasksByRole(ctx, production.Role(role))
			} else {
				tasks, err = app.Queries.TasksByOrder(ctx, orderID)
			}
			if err != nil {
				return err
			}
			printTasks(tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Filter by worker role (active tasks, priority order)")
	cmd.Flags().StringVar(&orderID, "order", "", "Filter by order ID (pipeline order)")
	return cmd
}

func printTasks(tasks []*production.Task) {
	for _, t := range tasks {
		qty := ""
		if t.TargetQuantity() != nil {
			qty = fmt.Sprintf("qty=%d", *t.TargetQuantity())
		}
		fmt.Printf("%-36s  %-12s  %-14s  %-18s  %-8s  due %s  %s\n",
			t.ID(), t.Status(), t.Type(), t.Role(), t.Priority(),
			t.DueDate().Format("2006-01-02"), qty)
	}
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			stats, err := app.Queries.Stats(context.Background())
			if err != nil {
				return err
			}
			app.Metrics.SetOverdue(stats.Overdue)

			fmt.Printf("Total:       %d\n", stats.Total)
			fmt.Printf("Pending:     %d\n", stats.Pending)
			fmt.Printf("In progress: %d\n", stats.InProgress)
			fmt.Printf("Completed:   %d\n", stats.Completed)
			fmt.Printf("Overdue:     %d\n", stats.Overdue)
			return nil
		},
	}
}
