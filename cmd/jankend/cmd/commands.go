package cmd

import (
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainjanken/internal/app"
	"onchainjanken/internal/config"
	"onchainjanken/internal/janken"
)

func initCmd() *cobra.Command {
	var (
		admin       string
		adminPubKey string
		overwrite   bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config/app.toml under --home",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			path, err := config.WriteDefault(home, admin, adminPubKey, overwrite)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&admin, "admin", "", "genesis admin account (token minter, timeout setter)")
	cmd.Flags().StringVar(&adminPubKey, "admin-pubkey", "", "hex ed25519 public key of the genesis admin")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config file")
	_ = cmd.MarkFlagRequired("admin")
	_ = cmd.MarkFlagRequired("admin-pubkey")
	return cmd
}

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI server until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg, os.Stderr)
			if err != nil {
				return err
			}
			db, err := config.OpenDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			genesis, err := cfg.GenesisState()
			if err != nil {
				return err
			}
			a, err := app.New(db, genesis, logger)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}

			srv, err := server.NewServer(cfg.ABCI.Addr, cfg.ABCI.Transport, a)
			if err != nil {
				return fmt.Errorf("create abci server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("abci server start: %w", err)
			}
			defer func() { _ = srv.Stop() }()
			logger.Info("abci server started", "addr", cfg.ABCI.Addr, "transport", cfg.ABCI.Transport, "home", cfg.Home)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
	cmd.Flags().String("abci.addr", "", "ABCI listen address (overrides config)")
	cmd.Flags().String("abci.transport", "", "ABCI transport socket|grpc (overrides config)")
	cmd.Flags().String("log_level", "", "log level (overrides config)")
	return cmd
}

// commitCmd helps a host prepare a match: it draws a salt and prints the
// commitment to publish with janken/create_match.
func commitCmd() *cobra.Command {
	var saltHex string
	cmd := &cobra.Command{
		Use:   "commit <rock|paper|scissors>",
		Short: "Compute a move commitment (and a fresh salt unless --salt is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			move, err := janken.ParseMove(args[0])
			if err != nil {
				return err
			}
			if !move.Valid() {
				return fmt.Errorf("move must be rock, paper or scissors")
			}
			var salt janken.Salt
			if saltHex != "" {
				salt, err = janken.ParseSalt(saltHex)
			} else {
				salt, err = janken.NewSalt(rand.Reader)
			}
			if err != nil {
				return err
			}
			cmd.Printf("move=%s\nsalt=%s\ncommitment=%s\n", move, salt, janken.Commit(move, salt))
			return nil
		},
	}
	cmd.Flags().StringVar(&saltHex, "salt", "", "hex salt to reuse (at most 32 bytes)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s (app v%d)\n", BinaryName, Version, app.AppVersion)
		},
	}
}
