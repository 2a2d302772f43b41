// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// addHelpCommands adds the command catalog and the guides.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
	rootCmd.AddCommand(newQuickstartCmd(app))
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cyan := color.New(color.FgCyan).SprintFunc()

			output.Bold("Tradebook Commands")
			output.Println()

			categories := []struct {
				name     string
				commands []struct {
					cmd  string
					desc string
				}
			}{
				{
					name: "Journal",
					commands: []struct {
						cmd  string
						desc string
					}{
						{`add "<quick-add line>"`, "Record a trade in one line"},
						{"add --asset BTC ...", "Record a trade field by field"},
						{"list", "List trades, newest last"},
						{"show <id>", "Full detail for one trade"},
						{"edit <id>", "Change fields of a trade"},
						{"delete <id>", "Remove a trade"},
						{"capital [amount]", "Show or set the starting capital"},
					},
				},
				{
					name: "Import & Export",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"import <file>", "Import a broker CSV export"},
						{"import <file> --dry-run", "Preview an import without saving"},
						{"export [file]", "Write the spreadsheet (TSV)"},
					},
				},
				{
					name: "Performance",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"stats", "Dashboard with streaks and equity curve"},
						{"stats --asset BTC", "Dashboard for a subview"},
						{"list --outcome loss", "Losing trades only"},
						{"list --from 01/03/2024", "Trades from a date on"},
						{"list --id 4-9", "An exact id range"},
					},
				},
				{
					name: "Strategies",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"strategy add <name>", "Save a written strategy"},
						{"strategy list", "List saved strategies"},
						{"strategy show <strategy>", "Print a strategy"},
						{"strategy edit <strategy>", "Update name or text"},
						{"strategy activate <strategy>", "Mark the strategy audits run against"},
						{"strategy deactivate", "Clear the active strategy"},
						{"strategy delete <strategy>", "Remove a strategy"},
					},
				},
				{
					name: "AI Advisor",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"analyze <id>", "Post-mortem of a single trade"},
						{"audit --last 10", "Review a stretch of the journal"},
						{"audit list / show <audit>", "Saved audit history"},
						{"audit dismiss", "Hide the losing-streak notice"},
						{"suggest <asset>", "Ask for a setup, charts optional"},
					},
				},
				{
					name: "Backup",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"backup [file]", "Snapshot the whole journal to JSON"},
						{"restore <file>", "Replace the journal from a snapshot"},
					},
				},
				{
					name: "Help",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"help <command>", "Detailed help"},
						{"commands", "This list"},
						{"examples", "Common workflows"},
						{"quickstart", "New user guide"},
						{"version", "Version information"},
						{"config show/path/validate", "Configuration"},
					},
				},
			}

			for _, cat := range categories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %-32s %s\n", cyan(c.cmd), c.desc)
				}
				output.Println()
			}

			output.Dim("Use 'tradebook help <command>' for detailed help on any command")

			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common journal workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cyan := color.New(color.FgCyan).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Record a Closed Trade in One Line",
					commands: []string{
						`tradebook add "15/03/2024, BTC, Long, 10, 62,500.5, 63,100, 61,900, 64,000, 0.5, seguí el plan"`,
						"tradebook list                  # Confirm it landed in date order",
						"tradebook show 12               # Full detail, notes included",
					},
				},
				{
					title: "Track an Open Position",
					commands: []string{
						`tradebook add "20/03/2024, ETH, short, x5, 2,410.5, , 2,500, 2,300, 25" # Blank exit: stays open`,
						"tradebook edit 13 --exit 2280   # Close it later",
						"tradebook edit 13 --clear-exit  # Or reopen it again",
					},
				},
				{
					title: "Import a Broker CSV",
					commands: []string{
						"tradebook import trades.csv --dry-run   # Check the column mapping first",
						"tradebook import trades.csv             # Rows append to the journal",
						"tradebook import raro.csv --sep semicolon --map date=Fecha --map size=7",
					},
				},
				{
					title: "Review Performance",
					commands: []string{
						"tradebook stats                 # Full dashboard",
						"tradebook stats --asset BTC     # One market only",
						"tradebook list --outcome loss --from 01/03/2024",
						"tradebook list --id 4-9         # Exact id range, other filters ignored",
					},
				},
				{
					title: "Keep Your Strategy Next to the Trades",
					commands: []string{
						"tradebook strategy add Breakout --file breakout.md",
						"tradebook strategy activate break   # Prefixes work",
						"tradebook strategy show break",
					},
				},
				{
					title: "Ask the Advisor",
					commands: []string{
						"tradebook analyze 12            # Post-mortem of one trade",
						"tradebook audit --last 10       # Review the last ten against the active strategy",
						"tradebook audit show a1b        # Reread a saved audit",
						"tradebook suggest BTCUSDT --chart-15m chart.png",
					},
				},
				{
					title: "Backup and Restore",
					commands: []string{
						"tradebook backup                # Timestamped JSON snapshot",
						"tradebook backup viernes.json",
						"tradebook restore viernes.json  # Replaces the whole journal",
						"tradebook export hoja.tsv       # Spreadsheet-ready TSV",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", cyan(strings.TrimSpace(parts[0])), dim("# "+strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", cyan(c))
					}
				}
				output.Println()
			}

			return nil
		},
	}
}

func newQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		Long:  "Step-by-step guide for new users.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			cyan := color.New(color.FgCyan).SprintFunc()
			bold := color.New(color.Bold).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()

			output.Bold("Tradebook - Quick Start Guide")
			output.Println()

			steps := []struct {
				step  int
				title string
				desc  string
				cmd   string
			}{
				{
					step:  1,
					title: "Find the configuration",
					desc:  "Config and the journal database live in one directory.",
					cmd:   "tradebook config path",
				},
				{
					step:  2,
					title: "Set your starting capital",
					desc:  "The equity curve grows from this number.",
					cmd:   "tradebook capital 10000",
				},
				{
					step:  3,
					title: "Record your first trade",
					desc:  "One line: date, asset, direction, leverage, entry, exit, stop, target, size, notes.",
					cmd:   `tradebook add "15/03/2024, BTC, Long, x10, 62,500.5, 63,100, 61,900, 64,000, 0.5"`,
				},
				{
					step:  4,
					title: "Import your broker history",
					desc:  "Columns are matched by header name; --map fixes the odd ones.",
					cmd:   "tradebook import trades.csv --dry-run",
				},
				{
					step:  5,
					title: "Read the dashboard",
					desc:  "Win rate, profit factor, streaks and the equity curve.",
					cmd:   "tradebook stats",
				},
				{
					step:  6,
					title: "Write your strategy down",
					desc:  "Audits judge your trades against the active strategy.",
					cmd:   "tradebook strategy add Breakout --file breakout.md",
				},
				{
					step:  7,
					title: "Add an OpenAI key (optional)",
					desc:  "Unlocks analyze, audit and suggest. The journal works fine without one.",
					cmd:   "tradebook config path  # Then edit credentials.toml",
				},
				{
					step:  8,
					title: "Back up the journal",
					desc:  "A single JSON file holds trades, capital and strategies.",
					cmd:   "tradebook backup",
				},
			}

			for _, s := range steps {
				output.Printf("%s Step %d: %s\n", cyan("→"), s.step, bold(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", dim(s.cmd))
			}

			output.Bold("Configuration Files")
			output.Println()
			output.Printf("  %s - journal defaults, advisor model, logging\n", cyan("config.toml"))
			output.Printf("  %s - OpenAI API key\n", cyan("credentials.toml"))
			output.Println()

			output.Bold("Getting Help")
			output.Println()
			output.Printf("  %s - List all commands\n", cyan("tradebook commands"))
			output.Printf("  %s - Common workflows\n", cyan("tradebook examples"))
			output.Printf("  %s - Help for any command\n", cyan("tradebook help <command>"))
			output.Println()

			output.Bold("Good Habits")
			output.Println()
			output.Printf("  %s Imports append; run --dry-run on a new broker format first\n", color.YellowString("⚠"))
			output.Printf("  %s Restore replaces the whole journal; back up before restoring\n", color.YellowString("⚠"))
			output.Printf("  %s Trade ids renumber when dates change; refer to 'list' for current ids\n", color.YellowString("⚠"))

			return nil
		},
	}
}
