package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/app"
	"github.com/quantmind-br/siteassets-go/internal/config"
	"github.com/quantmind-br/siteassets-go/internal/domain"
	"github.com/quantmind-br/siteassets-go/internal/handlers"
	"github.com/quantmind-br/siteassets-go/internal/loader"
	"github.com/quantmind-br/siteassets-go/internal/manifest"
	"github.com/quantmind-br/siteassets-go/internal/utils"
	"github.com/quantmind-br/siteassets-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

// errInvalidManifest is returned by validate when the file has issues
var errInvalidManifest = errors.New("manifest is invalid")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "siteassets [root]",
	Short: "Load a site's asset manifest and run its handlers",
	Long: `siteassets reads a site-assets.json manifest from a local directory or an
http(s) site, loads every asset it lists (JSON, text, images and directories),
and runs the handler named by each asset. Handler artifacts and a load report
are written to the output directory.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.ConfigFilePath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().String("manifest", config.DefaultManifest, "Manifest location relative to the site root")
	rootCmd.Flags().StringP("output", "o", config.DefaultOutputDir, "Output directory")
	rootCmd.Flags().Bool("force", false, "Overwrite existing files")
	rootCmd.Flags().Bool("dry-run", false, "Run handlers without writing files")
	rootCmd.Flags().Bool("prune", false, "Delete artifacts earlier runs wrote that this run did not produce")
	rootCmd.Flags().Bool("watch", false, "Reload when files under a local root change")
	rootCmd.Flags().Bool("no-cache", false, "Disable the response cache")
	rootCmd.Flags().String("listing", config.DefaultListing, "Directory listing mode (autoindex|index)")
	rootCmd.Flags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.Flags().String("user-agent", "", "Custom User-Agent")

	_ = viper.BindPFlag("site.manifest", rootCmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("output.directory", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.overwrite", rootCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("output.dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("output.prune", rootCmd.Flags().Lookup("prune"))
	_ = viper.BindPFlag("watch.enabled", rootCmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("directory.listing", rootCmd.Flags().Lookup("listing"))
	_ = viper.BindPFlag("fetch.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("fetch.user_agent", rootCmd.Flags().Lookup("user-agent"))

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(handlersCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) *utils.Logger {
	opts := utils.LoggerOptions{
		Level:   config.DefaultLogLevel,
		Format:  config.DefaultLogFormat,
		Verbose: verbose,
	}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}
	return utils.NewLogger(opts)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log = newLogger(cfg)

	if len(args) == 1 {
		cfg.Site.Root = args[0]
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var progress io.Writer
	if !verbose {
		progress = cmd.ErrOrStderr()
	}

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose: verbose,
			DryRun:  cfg.Output.DryRun,
			Force:   cfg.Output.Overwrite,
		},
		Config:   cfg,
		Watch:    cfg.Watch.Enabled,
		Progress: progress,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	session, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), session.Report())
	return nil
}

func printSummary(w io.Writer, report *loader.Report) {
	loaded, skipped, failed := report.Counts()
	fmt.Fprintf(w, "Loaded %d assets (%d skipped, %d failed), %d handler errors in %s\n",
		loaded, skipped, failed, len(report.HandlerErrors()), report.Duration().Round(time.Millisecond))
}

var validateCmd = &cobra.Command{
	Use:   "validate [manifest]",
	Short: "Validate a local manifest file",
	Long: `Checks a local site-assets.json (or .yaml) against the manifest schema and
the loader's structural rules, and reports handlers that no built-in handler
resolves.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultManifest
		if len(args) == 1 {
			path = args[0]
		}
		return validateManifest(cmd.OutOrStdout(), path)
	},
}

func validateManifest(w io.Writer, path string) error {
	result, err := manifest.ValidateSchemaFile(path)
	if err != nil {
		return err
	}

	valid := result.Valid
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  schema: %s\n", issue)
	}

	m, err := manifest.NewLoader().Load(path)
	if err != nil {
		return err
	}

	if err := manifest.Validate(m); err != nil {
		valid = false
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	registry := handlers.NewDefaultRegistry(handlers.Deps{})
	for _, a := range m.Assets {
		if a.Handler == "" {
			continue
		}
		if _, _, ok := registry.Lookup(a.Handler); !ok {
			fmt.Fprintf(w, "  warning: %s: handler %q is not built in\n", a.Path, a.Handler)
		}
	}

	stats := manifest.Summarize(m)
	types := make([]string, 0, len(stats.ByType))
	for t, n := range stats.ByType {
		types = append(types, fmt.Sprintf("%s=%d", t, n))
	}
	sort.Strings(types)

	fmt.Fprintf(w, "%s: %d assets (%s), %d with handlers\n",
		filepath.Base(path), stats.Total, strings.Join(types, ", "), stats.Handlers)

	if !valid {
		return errInvalidManifest
	}
	fmt.Fprintln(w, "OK")
	return nil
}

var handlersCmd = &cobra.Command{
	Use:   "handlers",
	Short: "List the built-in handlers",
	Run: func(cmd *cobra.Command, args []string) {
		registry := handlers.NewDefaultRegistry(handlers.Deps{})
		for _, name := range registry.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
