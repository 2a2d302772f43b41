// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradebook/internal/backup"
	"tradebook/internal/logging"
)

// addBackupCommands adds snapshot backup and restore commands.
func addBackupCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBackupCmd(app))
	rootCmd.AddCommand(newRestoreCmd(app))
}

func newBackupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file]",
		Short: "Write a snapshot of the whole journal",
		Long:  "Write trades, capital and strategies to a JSON snapshot file that 'restore' can read back.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}

			outFile := fmt.Sprintf("tradebook_backup_%s.json", time.Now().Format("2006-01-02"))
			if len(args) > 0 {
				outFile = args[0]
			}

			activeID := ""
			if s, ok := app.Book.ActiveStrategy(); ok {
				activeID = s.ID
			}
			data, err := backup.Marshal(app.Book.Trades(), app.Book.Capital(), app.Book.Strategies(), activeID)
			if err != nil {
				output.Error("Failed to build snapshot: %v", err)
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				output.Error("Failed to write %s: %v", outFile, err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"file":       outFile,
					"trades":     app.Book.Len(),
					"strategies": len(app.Book.Strategies()),
				})
			}
			output.Success("✓ Backed up %d trades and %d strategies to %s", app.Book.Len(), len(app.Book.Strategies()), outFile)
			return nil
		},
	}
}

func newRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the journal with a snapshot",
		Long: `Replace the whole journal with a previously written snapshot.

The snapshot is validated in full before anything is touched: a file
that is not a valid snapshot leaves the current journal exactly as it
was. Restoring renumbers trades by date as usual.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !requireBook(app, output) {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			data, err := os.ReadFile(args[0])
			if err != nil {
				output.Error("Failed to read %s: %v", args[0], err)
				return err
			}

			snap, err := backup.Unmarshal(data)
			if err != nil {
				output.Error("Not a usable snapshot: %v", err)
				output.Dim("The journal was left untouched.")
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			prompt := fmt.Sprintf("Replace the current journal (%d trades) with this snapshot (%d trades)? [y/N] ",
				app.Book.Len(), len(snap.Trades))
			if !yes && !confirm(cmd, prompt) {
				output.Info("Aborted.")
				return nil
			}

			if err := app.Book.Restore(ctx, snap.Trades, snap.InitialCapital, snap.Strategies, snap.ActiveID()); err != nil {
				output.Error("Restore failed: %v", err)
				return err
			}
			logging.LogRestore(app.Logger, len(snap.Trades), len(snap.Strategies))

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trades":     app.Book.Len(),
					"strategies": len(snap.Strategies),
					"timestamp":  snap.Timestamp,
				})
			}
			output.Success("✓ Restored %d trades and %d strategies", app.Book.Len(), len(snap.Strategies))
			if snap.Timestamp != "" {
				output.Dim("Snapshot taken %s", snap.Timestamp)
			}
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	return cmd
}
