package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/vidgrade"
	"github.com/fwojciec/vidgrade/bubbletea"
	"github.com/fwojciec/vidgrade/chroma"
	"github.com/fwojciec/vidgrade/clipboard"
	"github.com/fwojciec/vidgrade/config"
	"github.com/fwojciec/vidgrade/fs"
	"github.com/fwojciec/vidgrade/jsonl"
	"github.com/fwojciec/vidgrade/lipgloss"
	"github.com/fwojciec/vidgrade/logging"
	"github.com/fwojciec/vidgrade/pipeline"
	"github.com/fwojciec/vidgrade/platform"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	storePath  string
	json       bool
	noColor    bool
	theme      string
	verbose    bool
}

type scoreFlags struct {
	noAI     bool
	platform string
	model    string
}

// NewRootCmd builds the vidgrade command tree.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "vidgrade",
		Short:         "Score short-form e-commerce videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default ./vidgrade.yaml or ~/.vidgrade/config.yaml)")
	pf.StringVar(&flags.storePath, "store", "", "report store path (overrides config)")
	pf.BoolVar(&flags.json, "json", false, "write reports as JSON")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVar(&flags.theme, "theme", "dark", "report theme: dark or light")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newScoreCmd(flags, stdin, stdout, stderr),
		newShowCmd(flags, stdout),
		newListCmd(flags, stdout),
		newBrowseCmd(flags, stdout),
		newPlatformsCmd(stdout),
		newConfigCmd(flags, stdout),
	)
	return root
}

func newScoreCmd(flags *rootFlags, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	sf := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score <features.jsonl|->",
		Short: "Score every video in a features file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if sf.platform != "" {
				cfg.AI.Platform = sf.platform
			}
			if sf.model != "" {
				cfg.AI.Model = sf.model
			}
			if sf.noAI {
				cfg.AI.Enabled = false
			}
			log := logging.New(stderr, cfg.Log.Verbose)

			store := jsonl.NewStore(cfg.Store.Path)
			opts := []pipeline.Option{
				pipeline.WithStore(store),
				pipeline.WithLogger(logging.Component(log, "pipeline")),
				pipeline.WithKeyFrameLoader(func(paths []string) []vidgrade.KeyFrame {
					return fs.LoadKeyFrames(paths, logging.Component(log, "frames"))
				}),
			}
			if cfg.AI.Enabled {
				evaluator, err := newEvaluator(cmd, cfg, log)
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithEvaluator(evaluator))
			}

			loader := jsonl.NewLoader()
			loader.Stdin = stdin
			app := &App{
				Out:       stdout,
				Loader:    loader,
				Scorer:    pipeline.New(opts...),
				Store:     store,
				Formatter: flags.formatter(stdout),
			}
			return app.Score(cmd.Context(), args[0])
		},
	}
	cmd.Flags().BoolVar(&sf.noAI, "no-ai", false, "skip the AI critique")
	cmd.Flags().StringVar(&sf.platform, "platform", "", fmt.Sprintf("AI platform %v (overrides config)", platform.Supported()))
	cmd.Flags().StringVar(&sf.model, "model", "", "AI model (overrides config and platform default)")
	return cmd
}

func newEvaluator(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) (vidgrade.AIEvaluator, error) {
	ev, err := platform.New(cmd.Context(),
		vidgrade.EvaluatorConfig{
			Platform: cfg.AI.Platform,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		},
		platform.WithLookupEnv(cfg.LookupEnv),
		platform.WithLogger(logging.Component(log, "critique")),
		platform.WithTimeout(cfg.AI.Timeout),
	)
	if err != nil {
		return nil, err
	}
	cacheDir := cfg.AI.CacheDir
	if cacheDir == "" {
		cacheDir = fs.DefaultCacheDir()
	}
	return fs.NewEvaluator(ev, cacheDir), nil
}

func newShowCmd(flags *rootFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := flags.readOnlyApp(stdout)
			if err != nil {
				return err
			}
			return app.Show(cmd.Context(), args[0])
		},
	}
}

func newListCmd(flags *rootFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := flags.readOnlyApp(stdout)
			if err != nil {
				return err
			}
			return app.List(cmd.Context())
		},
	}
}

func newBrowseCmd(flags *rootFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse stored reports interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := flags.readOnlyApp(stdout)
			if err != nil {
				return err
			}
			app.Viewer = bubbletea.NewViewer(
				bubbletea.WithRenderFunc(lipgloss.NewRenderer(stdout, flags.rendererOptions(stdout)...).Render),
				bubbletea.WithClipboard(clipboard.NewSystem()),
			)
			return app.Browse(cmd.Context())
		},
	}
}

func newPlatformsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported AI platforms",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return WritePlatforms(stdout)
		},
	}
}

func newConfigCmd(flags *rootFlags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return cfg.Encode(stdout)
		},
	}
}

// WritePlatforms writes one line per supported platform: id, credential
// variable, default model and description. The default platform is starred.
func WritePlatforms(w io.Writer) error {
	for _, id := range platform.Supported() {
		d, _ := platform.DefaultsFor(id)
		mark := " "
		if id == platform.Default {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %-9s %-18s %-28s %s\n", mark, id, d.KeyEnv, d.Model, d.Description); err != nil {
			return err
		}
	}
	return nil
}

func (f *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.storePath != "" {
		cfg.Store.Path = f.storePath
	}
	if f.verbose {
		cfg.Log.Verbose = true
	}
	return cfg, nil
}

func (f *rootFlags) readOnlyApp(stdout io.Writer) (*App, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	return &App{
		Out:       stdout,
		Store:     jsonl.NewStore(cfg.Store.Path),
		Formatter: f.formatter(stdout),
	}, nil
}

func (f *rootFlags) formatter(stdout io.Writer) ReportFormatter {
	color := !f.noColor && isTerminal(stdout)
	if f.json {
		jf := &JSONFormatter{}
		if color {
			jf.Highlighter = chroma.NewHighlighter("", "")
		}
		return jf
	}
	return &TextFormatter{Renderer: lipgloss.NewRenderer(stdout, f.rendererOptions(stdout)...)}
}

func (f *rootFlags) rendererOptions(stdout io.Writer) []lipgloss.RendererOption {
	opts := []lipgloss.RendererOption{lipgloss.WithTheme(lipgloss.ThemeByName(f.theme))}
	if f.noColor || !isTerminal(stdout) {
		opts = append(opts, lipgloss.WithColorProfile(termenv.Ascii))
	}
	return opts
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
