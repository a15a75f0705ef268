// Package cmd provides the CLI commands for marketctl.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vlasovmk/marketctl/internal/api"
	"github.com/vlasovmk/marketctl/internal/auth"
	"github.com/vlasovmk/marketctl/internal/config"
	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/market"
	"github.com/vlasovmk/marketctl/internal/session"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "marketctl",
	Short: "marketctl - marketplace client",
	Long: `marketctl is a command-line client for the marketplace.

Browse and search listings without an account; log in to favorite
items and to create, edit, or delete your own listings.

Configuration:
  Config is loaded from marketctl.yaml in the current directory or
  $HOME/.config/marketctl/. Environment variables override config
  values with the MARKETCTL_ prefix, e.g. MARKETCTL_API_URL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errs.Message(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./marketctl.yaml)")
	rootCmd.PersistentFlags().String("api", "", "marketplace API base URL")
	rootCmd.PersistentFlags().String("state-dir", "", "directory for the persisted session")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("state_dir", rootCmd.PersistentFlags().Lookup("state-dir"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	config.Init(cfgFile)
}

// app bundles the wired client stack for one command invocation.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	store   *session.Store
	client  *api.Client
	auth    *auth.Controller
	gateway *market.Gateway
}

// cliNavigator renders session transitions as hints instead of routes.
type cliNavigator struct{}

func (cliNavigator) ToListings() {
	fmt.Println("Run 'marketctl browse' to see listings.")
}

func (cliNavigator) ToLogin() {
	fmt.Println("Run 'marketctl login' to sign in.")
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, _ = zap.NewDevelopment()
	}

	store := session.New(cfg.StateDir)
	client := api.New(cfg.APIURL, store,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Timeout),
	)
	ctrl := auth.New(client, store, cliNavigator{}, logger)
	gw := market.New(client, ctrl.Current, logger)

	return &app{
		cfg:     cfg,
		log:     logger,
		store:   store,
		client:  client,
		auth:    ctrl,
		gateway: gw,
	}, nil
}

// finish applies the session lifecycle rule: a 401 on any call while a
// session exists means the token went stale, so the session ends.
func (a *app) finish(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrUnauthenticated) && a.auth.Current() != nil {
		fmt.Fprintln(os.Stderr, "Session expired.")
		a.auth.Logout()
	}
	return err
}
