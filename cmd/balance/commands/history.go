package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwyatt/balance/internal/config"
	"github.com/mwyatt/balance/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history [task]",
	Short: "Show recorded task events",
	Long: `Show the most recent task events from the journal, newest first.
With a task name, show only that task's events.

Use --limit to change how many events are shown, --json for scripting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	historyCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, _ := config.Load(cfgPath)
	if cfg.JournalPath == "" {
		return fmt.Errorf("journal is disabled (journal_path is empty)")
	}

	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer jnl.Close()

	taskName := ""
	if len(args) == 1 {
		taskName = args[0]
	}
	limit, _ := cmd.Flags().GetInt("limit")

	events, err := jnl.History(taskName, limit)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTASK\tTYPE\tACTION\tDETAIL")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.At.Local().Format(time.DateTime), e.Task, e.Type, e.Action, e.Detail)
	}
	return w.Flush()
}
