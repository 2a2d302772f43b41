// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/errors"
)

// addStrategyCommands adds written-strategy management commands.
func addStrategyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Manage written trading strategies",
		Long: `Manage written trading strategies.

The active strategy is the yardstick the AI advisor audits your trades
against. Strategies are referenced by id, id prefix or name.`,
	}

	cmd.AddCommand(newStrategyAddCmd(app))
	cmd.AddCommand(newStrategyListCmd(app))
	cmd.AddCommand(newStrategyShowCmd(app))
	cmd.AddCommand(newStrategyEditCmd(app))
	cmd.AddCommand(newStrategyActivateCmd(app))
	cmd.AddCommand(newStrategyDeactivateCmd(app))
	cmd.AddCommand(newStrategyDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

// strategyContent resolves the --content and --file flags to strategy text.
func strategyContent(cmd *cobra.Command) (string, error) {
	content, _ := cmd.Flags().GetString("content")
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read strategy file: %w", err)
		}
		return string(data), nil
	}
	return content, nil
}

func newStrategyAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a strategy",
		Example: `  tradebook strategy add "London breakout" --file strategy.md
  tradebook strategy add Scalping --content "Only trade the first hour..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			content, err := strategyContent(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			s, err := app.Book.AddStrategy(ctx, args[0], content)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Success("✓ Strategy %q added (%s)", s.Name, shortID(s.ID))
			if _, ok := app.Book.ActiveStrategy(); !ok {
				output.Dim("Activate it with 'tradebook strategy activate %s' to use it in audits.", s.Name)
			}
			return nil
		},
	}

	cmd.Flags().String("content", "", "strategy text")
	cmd.Flags().String("file", "", "read strategy text from a file")
	return cmd
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			strategies := app.Book.Strategies()
			if output.IsJSON() {
				return output.JSON(strategies)
			}
			if len(strategies) == 0 {
				output.Info("No strategies yet.")
				output.Dim("Tip: add one with 'tradebook strategy add'.")
				return nil
			}

			active, hasActive := app.Book.ActiveStrategy()
			table := NewTable(output, "ID", "Name", "Words", "Active")
			for _, s := range strategies {
				marker := ""
				if hasActive && s.ID == active.ID {
					marker = output.Green("●")
				}
				table.AddRow(shortID(s.ID), s.Name, fmt.Sprintf("%d", len(strings.Fields(s.Content))), marker)
			}
			table.Render()
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <strategy>",
		Short: "Show a strategy in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			s, ok := app.Book.FindStrategy(args[0])
			if !ok {
				output.Error("No strategy matches %q", args[0])
				return errors.Wrapf(errors.ErrStrategyNotFound, "%q", args[0])
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Bold("%s", s.Name)
			output.Dim("id %s", s.ID)
			if active, ok := app.Book.ActiveStrategy(); ok && active.ID == s.ID {
				output.Println(output.Green("● active"))
			}
			output.Println()
			output.Println(s.Content)
			return nil
		},
	}
}

func newStrategyEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <strategy>",
		Short: "Edit a strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, ok := app.Book.FindStrategy(args[0])
			if !ok {
				output.Error("No strategy matches %q", args[0])
				return errors.Wrapf(errors.ErrStrategyNotFound, "%q", args[0])
			}

			if name, _ := cmd.Flags().GetString("name"); cmd.Flags().Changed("name") {
				s.Name = name
			}
			if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
				content, err := strategyContent(cmd)
				if err != nil {
					output.Error("%v", err)
					return err
				}
				s.Content = content
			}

			if err := app.Book.UpdateStrategy(ctx, s); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Success("✓ Strategy %q updated", s.Name)
			return nil
		},
	}

	cmd.Flags().String("name", "", "new strategy name")
	cmd.Flags().String("content", "", "new strategy text")
	cmd.Flags().String("file", "", "read new strategy text from a file")
	return cmd
}

func newStrategyActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <strategy>",
		Short: "Make a strategy the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, ok := app.Book.FindStrategy(args[0])
			if !ok {
				output.Error("No strategy matches %q", args[0])
				return errors.Wrapf(errors.ErrStrategyNotFound, "%q", args[0])
			}
			if err := app.Book.SetActiveStrategy(ctx, s.ID); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Success("✓ %q is now the active strategy", s.Name)
			return nil
		},
	}
}

func newStrategyDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Clear the active strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, ok := app.Book.ActiveStrategy(); !ok {
				output.Info("No strategy is active.")
				return nil
			}
			if err := app.Book.ClearActiveStrategy(ctx); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"active": nil})
			}
			output.Success("✓ Active strategy cleared")
			return nil
		},
	}
}

func newStrategyDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <strategy>",
		Short: "Delete a strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, ok := app.Book.FindStrategy(args[0])
			if !ok {
				output.Error("No strategy matches %q", args[0])
				return errors.Wrapf(errors.ErrStrategyNotFound, "%q", args[0])
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(cmd, fmt.Sprintf("Delete strategy %q? [y/N] ", s.Name)) {
				output.Info("Aborted.")
				return nil
			}

			if err := app.Book.DeleteStrategy(ctx, s.ID); err != nil {
				output.Error("%v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": s.ID})
			}
			output.Success("✓ Strategy %q deleted", s.Name)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	return cmd
}

// shortID abbreviates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
