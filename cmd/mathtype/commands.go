package main

import (
	"fmt"
	"path/filepath"

	"mathtype/internal/app"
	"mathtype/internal/config"
	"mathtype/internal/convert"
	"mathtype/internal/logger"
	"mathtype/internal/mapping"
	"mathtype/internal/services"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath    string
	mappingPath   string
	logLevel      string
	jsonLogs      bool
	trailingSpace bool
	noDynamic     bool

	getenv func(string) string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &rootOptions{getenv: getenv}

	rootCmd := &cobra.Command{
		Use:   "mathtype",
		Short: "Rewrites typed shortcuts into math symbols and LaTeX",
		Long: `mathtype converts shorthand such as ;a, ;1/2 or ;;-AB into Unicode math
symbols and LaTeX fragments. Without a subcommand it opens the editor window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, log, err := opts.load()
			if err != nil {
				return err
			}
			application, err := app.NewApplication(settings, log)
			if err != nil {
				log.Error("main", err, nil)
				return err
			}
			return application.Run()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default: mathtype.yaml next to the executable)")
	flags.StringVar(&opts.mappingPath, "mapping", "", "mapping document path")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "write logs as JSON")
	flags.BoolVar(&opts.trailingSpace, "trailing-space", false, "append a space after every literal replacement")
	flags.BoolVar(&opts.noDynamic, "no-dynamic", false, "disable the fraction, root, vector and segment rules")

	rootCmd.AddCommand(
		newConvertCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newImportCmd(opts),
	)
	return rootCmd
}

// settings resolves defaults, the settings file, the environment and the
// flags, in that order.
func (o *rootOptions) settings() (config.Settings, error) {
	baseDir, err := config.ExecutableDir()
	if err != nil {
		return config.Settings{}, err
	}

	path := o.configPath
	if path == "" {
		path = filepath.Join(baseDir, config.DefaultFileName)
	}

	s, err := config.Load(path, baseDir)
	if err != nil {
		return s, err
	}
	if o.getenv != nil {
		s.ApplyEnv(o.getenv)
	}

	if o.mappingPath != "" {
		s.MappingFile = o.mappingPath
	}
	if o.logLevel != "" {
		s.LogLevel = o.logLevel
	}
	if o.jsonLogs {
		s.JSONLogs = true
	}
	if o.trailingSpace {
		s.TrailingSpace = true
	}
	if o.noDynamic {
		s.DynamicRules = false
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func (o *rootOptions) load() (config.Settings, logger.Logger, error) {
	s, err := o.settings()
	if err != nil {
		return s, nil, err
	}
	return s, s.NewLogger(), nil
}

// openService opens the mapping store for a headless command
func (o *rootOptions) openService() (*services.MappingService, error) {
	s, log, err := o.load()
	if err != nil {
		return nil, err
	}
	store, err := mapping.Open(s.MappingFile, log)
	if err != nil {
		return nil, err
	}
	return services.NewMappingService(store, convert.New(s.ConverterOptions()), log), nil
}
