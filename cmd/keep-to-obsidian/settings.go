package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sleroq/keep-to-obsidian/internal/domain/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the import settings stored in the vault",
	}
	cmd.AddCommand(
		newSettingsShowCmd(),
		newSettingsSetCmd(),
		newSettingsPresetCmd(),
		newSettingsResetCmd(),
		newSettingsKeysCmd(),
	)
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			s, err := e.store.LoadOrDefault()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting, for example: set folderNames.notes \"Keep\"",
		Long: "Change one setting by its JSON key.\n" +
			"Character tables take char=replacement pairs separated by commas, for example:\n" +
			"  settings set problemChars '#=,[=(,]=)'",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := settings.ParsePatch(args[0], args[1])
			if err != nil {
				return err
			}
			return updateSettings(cmd, patch)
		},
	}
}

func newSettingsPresetCmd() *cobra.Command {
	names := make([]string, 0, 4)
	for _, p := range settings.Presets() {
		names = append(names, string(p))
	}
	names = append(names, "auto")

	return &cobra.Command{
		Use:       "preset NAME",
		Short:     "Select the invalid character table: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			var preset settings.Preset
			if strings.EqualFold(strings.TrimSpace(args[0]), "auto") {
				preset = settings.PresetForOS(runtime.GOOS)
			} else {
				p, err := settings.ParsePreset(args[0])
				if err != nil {
					return err
				}
				preset = p
			}
			return updateSettings(cmd, settings.WithInvalidCharPreset(preset))
		},
	}
}

func newSettingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget stored settings and go back to the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.store.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings reset to defaults")
			return nil
		},
	}
}

func newSettingsKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the keys accepted by settings set",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, k := range settings.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}
}

func updateSettings(cmd *cobra.Command, patches ...settings.Patch) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	current, err := e.store.LoadOrDefault()
	if err != nil {
		return err
	}
	next := settings.Update(current, patches...)
	if err := e.store.Save(next); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (invalid characters: %s)\n", e.store.Path(), next.InvalidCharFilter)
	return nil
}
