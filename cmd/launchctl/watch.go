package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/launchkit/launch/pkg/loader"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Run a launch description, live-reloading on every edit",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	initViper()
	path := args[0]

	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.close()

	entity, err := loader.Load(path, loader.WithShutdownGrace(rt.cfg.SigintGrace, rt.cfg.SigtermGrace))
	if err != nil {
		return fmt.Errorf("launchctl: loading %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchCfg := loader.DefaultWatchConfig(path)
	watchCfg.SigintGrace = rt.cfg.SigintGrace
	watchCfg.SigtermGrace = rt.cfg.SigtermGrace

	go func() {
		if err := loader.Watch(ctx, rt.lc, watchCfg); err != nil && err != context.Canceled {
			rt.logger.Error("watch stopped", "error", err)
		}
	}()

	rt.svc.IncludeLaunchDescription(entity)

	runDone := make(chan struct {
		code int
		err  error
	}, 1)
	go func() {
		code, err := rt.svc.Run(context.Background())
		runDone <- struct {
			code int
			err  error
		}{code, err}
	}()

	<-rt.svc.Ready()

	model := newDashboard(path, rt.lc, rt.svc, rt.ringLog)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("launchctl: running dashboard: %w", err)
	}

	result := <-runDone
	if result.err != nil {
		return result.err
	}
	if result.code != 0 {
		os.Exit(result.code)
	}
	return nil
}
