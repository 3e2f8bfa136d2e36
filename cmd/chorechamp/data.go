package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorechamp/internal/backup"
	"github.com/dukerupert/chorechamp/internal/config"
	"github.com/dukerupert/chorechamp/internal/database"
	"github.com/dukerupert/chorechamp/internal/household"
	"github.com/dukerupert/chorechamp/internal/logging"
	"github.com/dukerupert/chorechamp/internal/store"
)

const passphraseEnv = "CHORECHAMP_BACKUP_PASSPHRASE"

func openStore(cfg config.Config) (*store.CollectionStore, func() error, error) {
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return store.NewCollectionStore(db), db.Close, nil
}

func newLeaderboardCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Print members ranked by points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cs, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return printLeaderboard(cmd.Context(), cmd.OutOrStdout(), cs, logger)
		},
	}
}

func printLeaderboard(ctx context.Context, w io.Writer, p household.Persister, logger *slog.Logger) error {
	state := household.New(ctx, p, logger)

	fmt.Fprintln(w, state.HouseholdName())
	entries := state.Leaderboard()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no members yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tPOINTS\tCOMPLETED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.Rank, e.Member.Name, e.Member.Points, e.ChoresCompleted)
	}
	return tw.Flush()
}

// printKeys lists the collections currently stored, one per line.
func printKeys(ctx context.Context, w io.Writer, cs *store.CollectionStore) error {
	keys, err := cs.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\n", k)
	}
	return nil
}

func passphraseFrom(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(passphraseEnv); v != "" {
		return v, nil
	}
	return "", errors.New("a passphrase is required: use --passphrase or " + passphraseEnv)
}

func newExportCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var passphrase string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write an encrypted snapshot of all household data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pass, err := passphraseFrom(passphrase)
			if err != nil {
				return err
			}
			cs, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			f, err := os.OpenFile(args[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			n, err := backup.Export(cmd.Context(), cs, f, pass)
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close snapshot file: %w", cerr)
			}
			if err != nil {
				os.Remove(args[0])
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d collections to %s\n", n, args[0])
			return printKeys(cmd.Context(), cmd.OutOrStdout(), cs)
		},
	}
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "snapshot passphrase (or set "+passphraseEnv+")")
	return cmd
}

func newImportCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var passphrase string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all household data with an encrypted snapshot",
		Long: `Replace all household data with the contents of an encrypted snapshot.

Stop the server first: a running server keeps its own copy of the data in
memory and would overwrite the imported collections on its next change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pass, err := passphraseFrom(passphrase)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot file: %w", err)
			}
			defer f.Close()

			cs, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := backup.Import(cmd.Context(), cs, f, pass)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d collections from %s\n", n, args[0])
			return printKeys(cmd.Context(), cmd.OutOrStdout(), cs)
		},
	}
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "snapshot passphrase (or set "+passphraseEnv+")")
	return cmd
}
