package main

import (
	"github.com/joeydtaylor/steeze-dispatch/pkg/serverfx"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dispatch server until interrupted",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newApp() *fx.App {
	return fx.New(
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger { return &fxevent.ZapLogger{Logger: l} }),
		fx.Provide(NewService, Routes),
		serverfx.Module[*Service](
			serverfx.WithService("dispatchd"),
			serverfx.WithDefaultManifest("manifest.toml"),
		),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	app := newApp()
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}
