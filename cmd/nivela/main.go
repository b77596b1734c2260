// Package main provides the CLI entrypoint for nivela.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/nivela/internal/browser"
	"github.com/verte-zerg/nivela/internal/config"
	"github.com/verte-zerg/nivela/internal/earthwork"
	"github.com/verte-zerg/nivela/internal/export"
	"github.com/verte-zerg/nivela/internal/loader"
	"github.com/verte-zerg/nivela/internal/model"
	"github.com/verte-zerg/nivela/internal/profile"
	"github.com/verte-zerg/nivela/internal/store"
	"github.com/verte-zerg/nivela/internal/watch"
)

const (
	defaultFormat        = "tsv"
	defaultProfileHeight = 12
)

// Commands that own the terminal log to a file instead of stderr.
const annotationTUI = "tui"

const copiedNotice = "Datos copiados al portapapeles. Puedes pegarlos en Excel."

var (
	verbose bool
	logger  = zap.NewNop()

	filterCategory string
	filterMin      string
	filterMax      string
	filterSort     bool

	browseWatch bool

	computeFormat  string
	computeCopy    bool
	computeNoCache bool

	categoriesNatural bool

	profileHeight int
	profileColor  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nivela [file]",
		Short: "Cut volumes from leveling survey workbooks",
		Long: `nivela reads a leveling survey workbook (xlsx, csv or tsv), filters its
stations by category and abscissa range and integrates the lane cut areas
into cut volumes.

Run with a workbook path to open the interactive browser. Without a path the
last loaded dataset is used.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     false,
		Annotations:       map[string]string{annotationTUI: "true"},
		PersistentPreRunE: setupLogger,
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runBrowseCmd,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addFilterFlags(rootCmd)
	rootCmd.Flags().BoolVar(&browseWatch, "watch", false, "reload the workbook when it changes on disk")

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newComputeCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterCategory, "category", "", "category substring filter")
	cmd.Flags().StringVar(&filterMin, "min", "", "minimum abscissa in meters (inclusive)")
	cmd.Flags().StringVar(&filterMax, "max", "", "maximum abscissa in meters (inclusive)")
	cmd.Flags().BoolVar(&filterSort, "sort", false, "sort filtered stations by abscissa before integrating")
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Annotations[annotationTUI] == "true" {
		path := config.DefaultLogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "browse [file]",
		Short:       "Browse filtered stations and volumes",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationTUI: "true"},
		RunE:        runBrowseCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().BoolVar(&browseWatch, "watch", false, "reload the workbook when it changes on disk")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := filterSpec()
	if err != nil {
		return err
	}

	sess, err := openSession(cacheEnabled(fileCfg))
	if err != nil {
		return err
	}
	defer sess.Close()

	ds, source, err := sess.dataset(cmd.Context(), args)
	if err != nil {
		return err
	}

	browserCfg := browser.Config{
		Dataset: ds,
		Source:  source,
		Spec:    spec,
		Options: earthwork.Options{SortByAbscissa: filterSort},
		Loader:  sess.loader,
		Logger:  logger,
	}
	if browseWatch {
		if source == "" {
			return fmt.Errorf("--watch needs a workbook path")
		}
		watcher, err := watch.New(source, logger)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", source, err)
		}
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				logErrf("failed to close watcher: %v\n", cerr)
			}
		}()
		browserCfg.Changes = watcher.Changes()
	}

	program := tea.NewProgram(browser.NewModel(browserCfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newComputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute [file]",
		Short: "Compute cut volumes and print them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runComputeCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVar(&computeFormat, "format", defaultFormat, "output format: tsv, json, yaml or table")
	cmd.Flags().BoolVar(&computeCopy, "copy", false, "copy the result to the clipboard as tab separated text")
	cmd.Flags().BoolVar(&computeNoCache, "no-cache", false, "do not replace the cached dataset")
	return cmd
}

func runComputeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := filterSpec()
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(computeFormat)
	if err != nil {
		return err
	}

	sess, err := openSession(cacheEnabled(fileCfg) && !computeNoCache)
	if err != nil {
		return err
	}
	defer sess.Close()

	ds, _, err := sess.dataset(cmd.Context(), args)
	if err != nil {
		return err
	}
	res := computeResult(ds, spec)
	if !res.Valid() {
		logErrln(model.PositiveDifferenceWarning)
	}
	if err := export.Write(cmd.OutOrStdout(), res, format); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if computeCopy {
		copied, err := export.CopyToClipboard(res)
		if err != nil {
			return err
		}
		if copied {
			logErrln(copiedNotice)
		}
	}
	return nil
}

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories [file]",
		Short: "List station categories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCategoriesCmd,
	}
	cmd.Flags().BoolVar(&categoriesNatural, "natural", false, "list in natural order instead of first-seen order")
	return cmd
}

func runCategoriesCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(cacheEnabled(fileCfg))
	if err != nil {
		return err
	}
	defer sess.Close()

	ds, _, err := sess.dataset(cmd.Context(), args)
	if err != nil {
		return err
	}
	categories := ds.Categories
	if categoriesNatural {
		categories = earthwork.SortedCategories(ds)
	}
	for _, c := range categories {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), c); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Plot lane cut areas along the abscissa",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProfileCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&profileHeight, "height", defaultProfileHeight, "plot height in rows")
	cmd.Flags().BoolVar(&profileColor, "color", false, "force colored output")
	return cmd
}

func runProfileCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := filterSpec()
	if err != nil {
		return err
	}
	if profileHeight <= 0 {
		return fmt.Errorf("--height must be > 0")
	}
	sess, err := openSession(cacheEnabled(fileCfg))
	if err != nil {
		return err
	}
	defer sess.Close()

	ds, _, err := sess.dataset(cmd.Context(), args)
	if err != nil {
		return err
	}
	res := computeResult(ds, spec)
	if res.Len() == 0 {
		logErrln("No stations match the filter.")
		return nil
	}
	valid, ok := res.(model.ValidResult)
	if !ok {
		logErrln(model.PositiveDifferenceWarning)
		return nil
	}
	title := fmt.Sprintf("Áreas de corte (%s)", spec.String())
	return profile.Render(cmd.OutOrStdout(), title, profile.Areas(model.Rows(valid)), 0, profileHeight, profileColor)
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached dataset",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cached dataset",
		Args:  cobra.NoArgs,
		RunE:  runCacheShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop the cached dataset",
		Args:  cobra.NoArgs,
		RunE:  runCacheClearCmd,
	})
	return cmd
}

func runCacheShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	info, err := st.Info(cmd.Context())
	if errors.Is(err, store.ErrNoDataset) {
		logErrln("No cached dataset.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	lines := []string{
		"source:    " + info.Source,
		"load id:   " + info.LoadID,
		"loaded at: " + info.LoadedAt.Local().Format(time.DateTime),
		"stations:  " + strconv.Itoa(info.RowCount),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	if err := st.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logger.Debug("cache cleared")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// session holds the cache and loader shared by one command run.
type session struct {
	store  *store.Store
	loader *loader.Loader
}

func openSession(useCache bool) (*session, error) {
	sess := &session{}
	var cache loader.Cache
	if useCache {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		sess.store = st
		cache = st
	}
	sess.loader = loader.New(cache, logger)
	return sess, nil
}

func (s *session) Close() {
	if s.store != nil {
		closeStore(s.store)
	}
}

// dataset loads the workbook named in args, or the cached dataset when args
// is empty. source is the workbook path, or "" for a cached dataset whose
// file no longer exists.
func (s *session) dataset(ctx context.Context, args []string) (model.Dataset, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(args) > 0 {
		ds, err := s.loader.Load(ctx, args[0])
		if err != nil {
			return model.Dataset{}, "", err
		}
		return ds, args[0], nil
	}
	if s.store == nil {
		return model.Dataset{}, "", fmt.Errorf("no workbook given and the cache is disabled")
	}
	cached, err := s.store.LoadDataset(ctx)
	if errors.Is(err, store.ErrNoDataset) {
		return model.Dataset{}, "", fmt.Errorf("no dataset loaded yet; pass a workbook path (xlsx, csv or tsv)")
	}
	if err != nil {
		return model.Dataset{}, "", fmt.Errorf("failed to read cache: %w", err)
	}
	logger.Debug("using cached dataset",
		zap.String("load_id", cached.LoadID),
		zap.String("source", cached.Source),
		zap.Time("loaded_at", cached.LoadedAt),
	)
	source := cached.Source
	if _, err := os.Stat(source); err != nil {
		source = ""
	}
	return cached.Dataset, source, nil
}

func computeResult(ds model.Dataset, spec model.FilterSpec) model.Result {
	res := earthwork.Compute(ds, spec, earthwork.Options{SortByAbscissa: filterSort})
	if !filterSort && !earthwork.Ascending(model.Rows(res)) {
		logger.Warn("filtered stations are not in ascending abscissa order; use --sort to integrate in abscissa order",
			zap.String("filter", spec.String()))
	}
	return res
}

func filterSpec() (model.FilterSpec, error) {
	spec, err := model.ParseFilterSpec(filterCategory, filterMin, filterMax)
	if err != nil {
		return model.FilterSpec{}, fmt.Errorf("invalid filter: %w", err)
	}
	return spec, nil
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "category", &filterCategory, fileCfg.Filter.Category)
	applyBoundConfig(cmd, "min", &filterMin, fileCfg.Filter.Min)
	applyBoundConfig(cmd, "max", &filterMax, fileCfg.Filter.Max)
	applyBoolConfig(cmd, "sort", &filterSort, fileCfg.Filter.Sort)
	applyStringConfig(cmd, "format", &computeFormat, fileCfg.Output.Format)
	applyBoolConfig(cmd, "copy", &computeCopy, fileCfg.Output.Copy)
	return fileCfg, nil
}

func cacheEnabled(fileCfg config.FileConfig) bool {
	if fileCfg.Cache.Enabled == nil {
		return true
	}
	return *fileCfg.Cache.Enabled
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoundConfig(cmd *cobra.Command, name string, target *string, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = strconv.FormatFloat(*value, 'f', -1, 64)
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# nivela configuration
# Uncomment a value to enable it. CLI flags override config values.

[filter]
# category = "K0"         # Category substring filter
# min = 0                 # Minimum abscissa (m)
# max = 1000              # Maximum abscissa (m)
# sort = false            # Sort stations by abscissa before integrating

[output]
# format = %q          # tsv, json, yaml or table
# copy = false            # Copy compute output to the clipboard

[cache]
# enabled = true          # Keep the last loaded dataset in %s
`,
		defaultFormat,
		config.DefaultDBPath(),
	)
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
