package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errInvalid signals a failed validation whose report was already printed.
var errInvalid = errors.New("installation has validation errors")

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "instalaciones",
		Short:         "Residential water, drainage and heating calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: XDG or ./instalaciones.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.catalogDir, "catalogs", "", "catalog directory (overrides config)")

	rootCmd.AddCommand(calcCmd(&opts, "water", "Size the cold and hot water network"))
	rootCmd.AddCommand(calcCmd(&opts, "drainage", "Size drainage runs, access chambers and septic tank"))
	rootCmd.AddCommand(calcCmd(&opts, "heating", "Compute heat losses and size emitters and boiler"))
	rootCmd.AddCommand(validateCmd(&opts))
	rootCmd.AddCommand(serveCmd(&opts))
	rootCmd.AddCommand(projectCmd(&opts))
	rootCmd.AddCommand(catalogsCmd(&opts))
	rootCmd.AddCommand(configCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		}
		os.Exit(1)
	}
}

type globalOptions struct {
	configPath string
	catalogDir string
}

func calcCmd(opts *globalOptions, kind, short string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   kind + " [project-path]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCalc(opts, kind, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func validateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate an installation and run every engine it describes",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(opts, args[0])
		},
	}
}

func serveCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default from config)")
	return cmd
}

func projectCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage saved projects and their partidas",
	}

	var create projectFields
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjectCreate(cmd.Context(), opts, create)
		},
	}
	createCmd.Flags().StringVarP(&create.name, "name", "n", "", "project name")
	createCmd.Flags().StringVar(&create.client, "client", "", "client name")
	createCmd.Flags().StringVar(&create.address, "address", "", "site address")
	createCmd.Flags().StringVar(&create.notes, "notes", "", "free-form notes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjectList(cmd.Context(), opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [project-id]",
		Short: "Show a project with its partidas and bill of materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectShow(cmd.Context(), opts, args[0])
		},
	}

	var title string
	saveCmd := &cobra.Command{
		Use:   "save [project-id] [agua|sanitaria|calefaccion] [project-path]",
		Short: "Compute one section of an installation and save it as a partida",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectSave(cmd.Context(), opts, args[0], args[1], args[2], title)
		},
	}
	saveCmd.Flags().StringVarP(&title, "title", "t", "", "partida title (default: installation name)")

	var format, out string
	exportCmd := &cobra.Command{
		Use:   "export [project-id]",
		Short: "Export a project as json, csv, detailed csv or xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectExport(cmd.Context(), opts, args[0], format, out)
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "json, csv, detailed or xlsx")
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout; required for xlsx)")

	renameCmd := &cobra.Command{
		Use:   "rename [project-id] [name]",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectRename(cmd.Context(), opts, args[0], args[1])
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove-partida [project-id] [partida-id]",
		Short: "Remove one partida from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectRemovePartida(cmd.Context(), opts, args[0], args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [project-id]",
		Short: "Delete a project and its partidas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectDelete(cmd.Context(), opts, args[0])
		},
	}

	cmd.AddCommand(createCmd, listCmd, showCmd, saveCmd, exportCmd, renameCmd, removeCmd, deleteCmd)
	return cmd
}

func catalogsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalogs [dir]",
		Short: "List the catalog tables that load and the ones replaced by defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runCatalogs(opts, dir)
		},
	}
}

func configCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file that would be used",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigPath(opts)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(opts, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	return cmd
}
