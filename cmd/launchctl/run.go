package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/launchkit/launch/pkg/loader"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a launch description to completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	initViper()
	path := args[0]

	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.close()

	entity, err := loader.Load(path, loader.WithShutdownGrace(rt.cfg.SigintGrace, rt.cfg.SigtermGrace))
	if err != nil {
		return fmt.Errorf("launchctl: loading %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		warningColor.Fprintln(os.Stderr, "signal received, shutting down")
		rt.svc.Shutdown()
	}()

	infoColor.Printf("launching %s\n", path)
	rt.svc.IncludeLaunchDescription(entity)

	code, err := rt.svc.Run(context.Background())
	if err != nil {
		errorColor.Fprintln(os.Stderr, err)
	}
	if code == 0 {
		successColor.Println("all processes exited cleanly")
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
