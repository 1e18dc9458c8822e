package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sunushop-backend/pkg/client"
)

const (
	keyAPIURL  = "api_url"
	keySession = "session_file"
	keySearch  = "search_session"
)

type app struct {
	v       *viper.Viper
	session *client.Session
	api     *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Command-line client for the sunushop API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.shopctl.yaml)")
	flags.String("api-url", "http://localhost:8080", "base URL of the API")
	flags.String("session-file", defaultSessionPath(), "where the sign-in token is kept")
	flags.String("search-session", "", "identifier scoping city autocomplete")
	_ = a.v.BindPFlag(keyAPIURL, flags.Lookup("api-url"))
	_ = a.v.BindPFlag(keySession, flags.Lookup("session-file"))
	_ = a.v.BindPFlag(keySearch, flags.Lookup("search-session"))

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.quoteCmd(),
		a.zonesCmd(),
		a.countriesCmd(),
		a.citiesCmd(),
		a.checkoutCmd(),
		a.revenueCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("SHOPCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		a.v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigName(".shopctl")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	a.session = client.NewSession(a.v.GetString(keySession))
	if err := a.session.Load(); err != nil {
		return err
	}

	var opts []client.Option
	if id := a.v.GetString(keySearch); id != "" {
		opts = append(opts, client.WithSearchSession(id))
	}
	a.api = client.New(a.v.GetString(keyAPIURL), a.session, opts...)
	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shopctl", "session.json")
}
