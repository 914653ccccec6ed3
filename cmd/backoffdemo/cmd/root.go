package cmd

import (
	"fmt"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/internal/config"
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "backoffdemo",
	Short: "Run a flaky worker under a backoff supervisor",
	Long: `backoffdemo starts a worker that fails at random under a backoff supervisor and
feeds it work, so restarts, backoff delays and counter resets can be watched in the logs
and on the Prometheus endpoint.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml), BACKOFF_ env variables override it")
}

// initConfig loads the configuration and sets up the logger and the mailboxes
func initConfig() error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := logging.Init(c.LoggingConfig()); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	if err := actor.SetMailboxConfig(c.MailboxConfig()); err != nil {
		return fmt.Errorf("failed to set mailbox config: %w", err)
	}
	cfg = c
	return nil
}
