package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/mwyatt/balance/internal/balance"
	"github.com/mwyatt/balance/internal/config"
	"github.com/mwyatt/balance/internal/journal"
	"github.com/mwyatt/balance/internal/logging"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/repl"
	"github.com/mwyatt/balance/internal/sched"
	"github.com/mwyatt/balance/internal/store"
	"github.com/mwyatt/balance/internal/task/builtin"
	"github.com/mwyatt/balance/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive task tracker",
	Long: `Start balance: load task types and saved tasks, catch up time-dependent
tasks for the downtime, start the shared tick scheduler and auto-save, then
read commands from the prompt.

Use --dashboard for a live view instead of the prompt.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Bool("dashboard", false, "Show the live dashboard instead of the prompt")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, cfgErr := config.Load(cfgPath)

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Path: cfg.LogDir, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logging.Get().WithComponent("run")
	if cfgErr != nil {
		log.Warnf("%v (using defaults)", cfgErr)
	}

	reg := registry.New()
	builtin.RegisterAll(reg)
	loaded, errs := reg.LoadDir(cfg.TaskTypesDir)
	for _, err := range errs {
		log.Warnf("load task types: %v", err)
	}
	log.Infof("%d task type(s) loaded from %s", len(loaded), cfg.TaskTypesDir)

	scheduler := sched.New()
	defer scheduler.Stop()

	bal := balance.New(scheduler)

	st, err := store.New(cfg.SaveDir)
	if err != nil {
		return err
	}
	for _, err := range st.LoadAll(bal, reg) {
		log.Warnf("load save: %v", err)
	}
	log.Infof("%d task(s) live", bal.Len())

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		jnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.Warnf("journal disabled: %v", err)
			jnl = nil
		} else {
			defer jnl.Close()
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := reg.Watch(ctx, cfg.TaskTypesDir, log.WithComponent("types")); err != nil {
		log.Warnf("type watcher disabled: %v", err)
	}

	if cfg.AutoSaveInt > 0 {
		c := cron.New()
		c.Schedule(cron.Every(time.Duration(cfg.AutoSaveInt)*time.Second), cron.FuncJob(func() {
			if err := st.SaveAll(bal); err != nil {
				log.Errorf("auto save: %v", err)
			}
		}))
		c.Start()
		defer c.Stop()
	}

	if dashboard, _ := cmd.Flags().GetBool("dashboard"); dashboard {
		if _, err := tea.NewProgram(ui.New(bal)).Run(); err != nil {
			return err
		}
	} else {
		d := &repl.Dispatcher{
			Balance:  bal,
			Registry: reg,
			Store:    st,
			Journal:  jnl,
			Log:      log,
			Out:      os.Stderr,
		}
		d.Run(os.Stdin)
	}

	// save on the way out
	if err := st.SaveAll(bal); err != nil {
		log.Errorf("save on exit: %v", err)
	}
	return nil
}
