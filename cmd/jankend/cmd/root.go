package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainjanken/internal/config"
)

const (
	BinaryName = "jankend"
	flagHome   = "home"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func defaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".janken")
	}
	return ".janken"
}

// NewRootCmd creates the root command for jankend. It is called once in main.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           BinaryName,
		Short:         "Rock-paper-scissors wager chain (ABCI application)",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return v.BindPFlags(cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "node home directory")

	rootCmd.AddCommand(
		initCmd(),
		startCmd(v),
		commitCmd(),
		versionCmd(),
	)
	return rootCmd
}

func homeDir(cmd *cobra.Command) (string, error) {
	return cmd.Flags().GetString(flagHome)
}

func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	home, err := homeDir(cmd)
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(v, home)
}
