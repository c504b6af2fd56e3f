// Package cli implements the ginder commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/boushrabettir/ginder-backend/cfg"
	"github.com/boushrabettir/ginder-backend/internal/crawler"
	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
	"github.com/boushrabettir/ginder-backend/internal/model"
	"github.com/boushrabettir/ginder-backend/pkg/db"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/spf13/cobra"
)

var (
	flagConfigDir string
	flagLoader    string
	flagLogger    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "ginder",
	Short:         "Discover open-source projects, one swipe at a time",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagConfigDir, "config", "c", "cfg/yaml", "directory holding mode.yaml")
	RootCmd.PersistentFlags().StringVar(&flagLoader, "loader", "viper", "config loader: viper or mock")
	RootCmd.PersistentFlags().StringVar(&flagLogger, "logger", "csl", "logger: csl or nop")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the process-wide dependencies, built once per command.
type app struct {
	Loader    cfg.Loader
	Config    *cfg.Config
	Logger    log.Logger
	Mysql     *db.Mysql
	Caller    *githubapi.Caller
	ProjectMd *model.Project
	UserMd    *model.User
	Engine    *crawler.Engine
}

func bootstrap() (*app, error) {
	loader, err := cfg.NewLoader(flagLoader, flagConfigDir)
	if err != nil {
		return nil, err
	}
	config, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.NewLogger(flagLogger, config.App.Name, config.App.LogLevel)
	if err != nil {
		return nil, err
	}

	mysql, err := db.NewMysql(config)
	if err != nil {
		return nil, err
	}
	projectMd, _ := model.NewProject(config, logger, mysql)
	userMd, _ := model.NewUser(config, logger, mysql)
	caller := githubapi.NewCaller(logger, config)

	engine, err := crawler.NewEngine(logger, config, caller, projectMd, userMd)
	if err != nil {
		return nil, err
	}

	return &app{
		Loader:    loader,
		Config:    config,
		Logger:    logger,
		Mysql:     mysql,
		Caller:    caller,
		ProjectMd: projectMd,
		UserMd:    userMd,
		Engine:    engine,
	}, nil
}

func (a *app) Close() {
	if err := a.Mysql.Close(); err != nil {
		a.Logger.Warn(context.Background(), "Failed to close database: %v", err)
	}
}

// watchConfig applies reloadable settings when the config file changes.
func (a *app) watchConfig() {
	if watcher, ok := a.Loader.(*cfg.ViperLoader); ok {
		watcher.RegisterConfigChangeCallback(a.applyConfig)
	}
}

// applyConfig switches the log level live; every other setting applies on restart.
func (a *app) applyConfig(c *cfg.Config) {
	ctx := context.Background()
	if setter, ok := a.Logger.(log.LevelSetter); ok {
		if err := setter.SetLevel(c.App.LogLevel); err != nil {
			a.Logger.Warn(ctx, "Keeping current log level: %v", err)
		} else {
			a.Logger.Notice(ctx, "Log level is now %s", c.App.LogLevel)
		}
	}
	a.Logger.Notice(ctx, "Configuration file changed; other settings apply on restart")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
