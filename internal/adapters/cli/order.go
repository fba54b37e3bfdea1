package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avasylenko/stitchflow/internal/application/common"
	"github.com/avasylenko/stitchflow/internal/domain/order"
)

// NewOrderCommand creates the order command group
func NewOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage production orders",
	}
	cmd.AddCommand(newOrderCreateCommand())
	cmd.AddCommand(newOrderListCommand())
	return cmd
}

func newOrderCreateCommand() *cobra.Command {
	var (
		number   string
		customer string
		quantity int
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a production order",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := common.WithLogger(context.Background(), newStdoutLogger(verbose))

			o := order.NewOrder(uuid.New().String(), number, customer, quantity)
			if err := app.Orders.Create(ctx, o); err != nil {
				return err
			}
			fmt.Printf("Created order %s (%s)\n", o.OrderNumber(), o.ID())

			if generate {
				tasks, err := app.Workflow.GenerateOrderTasks(ctx, o.ID())
				if err != nil {
					return err
				}
				fmt.Printf("Generated %d tasks:\n", len(tasks))
				for _, t := range tasks {
					fmt.Printf("  %-12s %-20s %s (due %s)\n",
						t.Status(), t.Type(), t.Role(), t.DueDate().Format("2006-01-02"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Order number (required)")
	cmd.Flags().StringVar(&customer, "customer", "", "Customer name")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Quantity of garments (required)")
	cmd.Flags().BoolVar(&generate, "generate", true, "Generate the task chain immediately")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func newOrderListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			orders, err := app.Orders.FindAll(context.Background())
			if err != nil {
				return err
			}
			for _, o := range orders {
				fmt.Printf("%-36s  %-12s  qty=%-5d  %s\n",
					o.ID(), o.OrderNumber(), o.Quantity(), o.Status())
			}
			return nil
		},
	}
}
