package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sleroq/keep-to-obsidian/internal/config"
	"github.com/sleroq/keep-to-obsidian/internal/infra/settingsstore"
	"github.com/sleroq/keep-to-obsidian/internal/infra/vaultfs"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "keep-to-obsidian: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "keep-to-obsidian",
		Short:         "Import a Google Keep Takeout export into an Obsidian vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("vault", "", "path to the Obsidian vault (default \".\", env KEEP_IMPORT_VAULT)")
	flags.String("settings", "", "settings file (default <vault>/"+filepath.ToSlash(settingsstore.DefaultPath)+")")
	flags.String("log-level", "", "log level: debug, info, warn, error (default warn)")
	flags.String("log-file", "", "write JSON logs to this file with rotation")

	root.AddCommand(newImportCmd(), newSettingsCmd())
	return root
}

// env is what every subcommand needs: the resolved config, the vault and
// the settings store.
type env struct {
	cfg   *config.Config
	vault *vaultfs.Vault
	store *settingsstore.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	vault, err := vaultfs.Open(cfg.Vault)
	if err != nil {
		return nil, err
	}

	path, inVault := cfg.SettingsPath(settingsstore.DefaultPath)
	var store *settingsstore.Store
	if inVault {
		store = settingsstore.New(vault.Fs(), path)
	} else {
		store = settingsstore.New(afero.NewOsFs(), path)
	}
	return &env{cfg: cfg, vault: vault, store: store}, nil
}
