package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"ato_builder/internal/config"
	"ato_builder/internal/daemon"
	"ato_builder/internal/database"
	"ato_builder/internal/migration"
	"ato_builder/internal/models"
	"ato_builder/internal/tasks"
	"ato_builder/internal/usmtf"
	"ato_builder/internal/validation"

	"github.com/spf13/cobra"
)

// errViolations marks a command that ran but found an invalid document
var errViolations = errors.New("document has validation violations")

// app carries what every subcommand needs once configuration is loaded
type app struct {
	configPath string
	cfg        *config.Config
	renderer   *validation.Renderer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ato_builder",
		Short: "Build, validate and export Air Tasking Orders",
		Long: `Manage a collection of Air Tasking Orders.

Documents written in any earlier field layout are migrated on load. Exports use
the USMTF-like slash-delimited text format and are refused for documents that
fail validation unless --force is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (YAML)")

	root.AddCommand(
		a.newCmd(),
		a.listCmd(),
		a.showCmd(),
		a.validateCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.duplicateCmd(),
		a.deleteCmd(),
		a.daemonCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if a.configPath != "" {
		os.Setenv(config.ConfigPathEnv, a.configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(cfg, cmd.ErrOrStderr())

	renderer, err := validation.NewRenderer(cfg.Validation.Locale)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.renderer = renderer
	return nil
}

func (a *app) openRepository() (database.Repository, error) {
	repo, err := database.Open(a.cfg.Storage.Backend, a.cfg.Storage.JSONPath, a.cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	slog.Debug("Opened storage", "backend", a.cfg.Storage.Backend)
	return repo, nil
}

// withRepository opens the configured repository for the duration of fn
func (a *app) withRepository(fn func(repo database.Repository) error) error {
	repo, err := a.openRepository()
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("Error closing storage", "error", err)
		}
	}()
	return fn(repo)
}

func (a *app) printViolations(w io.Writer, ato models.ATO, vs validation.Violations) {
	fmt.Fprintf(w, "%s (%s): %d violation(s)\n", ato.Name, ato.ID, len(vs))
	for _, line := range vs.Strings(a.renderer) {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty ATO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				ato := models.NewATO(args[0])
				if err := repo.Upsert(ato); err != nil {
					return err
				}
				slog.Info("Created ATO", "id", ato.ID, "name", ato.Name)
				fmt.Fprintln(cmd.OutOrStdout(), ato.ID)
				return nil
			})
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored ATOs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				atos, err := repo.LoadAll()
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tOPER\tALLOTMENTS\tTASK UNITS\tSTATUS")
				for _, ato := range atos {
					status := "valid"
					if vs := validation.Validate(ato); !vs.Valid() {
						status = fmt.Sprintf("%d violation(s)", len(vs))
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						ato.ID, ato.Name, ato.Header.OperationID, len(ato.Allotments), len(ato.TaskUnits), status)
				}
				return tw.Flush()
			})
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print an ATO as its canonical JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				ato, err := repo.Get(args[0])
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(ato.ToMap(), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode ato: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate [ID]",
		Short: "Validate a stored ATO or the records in a file",
		Long: `Validate a stored ATO by identity, or every record in a JSON or YAML file
with --file. Records in a file may use any earlier field layout.
Exits non-zero when any violation is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var atos []models.ATO
			switch {
			case file != "" && len(args) == 0:
				loaded, err := loadFile(file)
				if err != nil {
					return err
				}
				atos = loaded
			case file == "" && len(args) == 1:
				err := a.withRepository(func(repo database.Repository) error {
					ato, err := repo.Get(args[0])
					atos = []models.ATO{ato}
					return err
				})
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("give either an ATO id or --file")
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, ato := range atos {
				vs := validation.Validate(ato)
				if vs.Valid() {
					fmt.Fprintf(out, "%s (%s): valid\n", ato.Name, ato.ID)
					continue
				}
				failed = true
				a.printViolations(out, ato, vs)
			}
			if failed {
				return errViolations
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Validate the records in a JSON or YAML file")
	return cmd
}

// loadFile migrates every record in a JSON or YAML file without storing it
func loadFile(path string) ([]models.ATO, error) {
	format, ok := migration.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := migration.DecodeRecords(data, format)
	if err != nil {
		return nil, err
	}
	atos := make([]models.ATO, 0, len(records))
	for _, record := range records {
		atos = append(atos, migration.Load(record))
	}
	return atos, nil
}

func (a *app) exportCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Render an ATO as USMTF-like text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				ato, err := repo.Get(args[0])
				if err != nil {
					return err
				}

				if vs := validation.Validate(ato); !vs.Valid() {
					if !force {
						a.printViolations(cmd.ErrOrStderr(), ato, vs)
						return errViolations
					}
					slog.Warn("Exporting ATO with violations", "id", ato.ID, "violations", len(vs))
				}

				if out == "" {
					return usmtf.Write(cmd.OutOrStdout(), ato)
				}

				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				if err := usmtf.Write(f, ato); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to close %s: %w", out, err)
				}
				slog.Info("Exported ATO", "id", ato.ID, "file", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "Export even when the document has violations")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Migrate and store the records in JSON or YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				importer := tasks.NewInboxImporter(repo, "", 0)
				for _, path := range args {
					atos, err := importer.ImportFile(path)
					if err != nil {
						return err
					}
					for _, ato := range atos {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ato.ID, ato.Name)
					}
					slog.Info("Imported file", "file", path, "records", len(atos))
				}
				return nil
			})
		},
	}
}

func (a *app) duplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate ID",
		Short: "Store a copy of an ATO under a new identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				ato, err := repo.Get(args[0])
				if err != nil {
					return err
				}
				dup := ato.Duplicate()
				if err := repo.Upsert(dup); err != nil {
					return err
				}
				slog.Info("Duplicated ATO", "source", ato.ID, "id", dup.ID)
				fmt.Fprintln(cmd.OutOrStdout(), dup.ID)
				return nil
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an ATO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepository(func(repo database.Repository) error {
				if err := repo.Delete(args[0]); err != nil {
					return err
				}
				slog.Info("Deleted ATO", "id", args[0])
				return nil
			})
		},
	}
}

func (a *app) daemonCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Import the inbox and export the outbox on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.openRepository()
			if err != nil {
				return err
			}

			d, err := daemon.New(repo, daemon.Config{
				InboxDir:       a.cfg.Inbox.Dir,
				InboxInterval:  a.cfg.Inbox.Interval,
				OutboxDir:      a.cfg.Outbox.Dir,
				OutboxInterval: a.cfg.Outbox.Interval,
			})
			if err != nil {
				repo.Close()
				return err
			}

			if once {
				err := d.RunOnce(cmd.Context())
				if closeErr := repo.Close(); closeErr != nil {
					slog.Error("Error closing storage", "error", closeErr)
				}
				return err
			}

			if err := d.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			slog.Info("Received interrupt signal, shutting down...")

			return d.Stop()
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run both tasks a single time and exit")
	return cmd
}
