package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoknoesis/rdf-access/codec"
	"github.com/geoknoesis/rdf-access/contextloader"
	"github.com/geoknoesis/rdf-access/internal/config"
	"github.com/geoknoesis/rdf-access/internal/logging"
	"github.com/geoknoesis/rdf-access/rdf"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	loader *contextloader.Loader
	codec  *codec.Codec
}

// cli carries the state shared by the root command and its subcommands.
type cli struct {
	cfgFile string
	v       *viper.Viper
	app     *app
}

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}
	rootCmd := &cobra.Command{
		Use:   "rdfutil",
		Short: "Convert and inspect RDF documents",
		Long: `rdfutil converts RDF between Turtle, N-Triples, RDF/XML and JSON-LD,
compacts JSON-LD against remote contexts, and reads typed property values.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(); err != nil {
				return err
			}
			a, err := newApp(c.v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.closer.Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.rdfutil.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("base", "", "base URI for relative IRIs (default: the input file URL)")
	flags.Int64("max-triples", 0, "reject inputs with more triples (0 for no limit)")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"log.level":         "log-level",
		"log.format":        "log-format",
		"codec.base_uri":    "base",
		"codec.max_triples": "max-triples",
	} {
		cobra.CheckErr(c.v.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(newConvertCmd(c), newGetCmd(c), newDescribeCmd(c), newContextCmd(c))
	return rootCmd
}

// initConfig reads in config file and ENV variables if set.
func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			c.v.AddConfigPath(home)
		}
		c.v.AddConfigPath(".")
		c.v.SetConfigType("yaml")
		c.v.SetConfigName(".rdfutil")
	}
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || c.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newApp(v *viper.Viper, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}

	loaderOpts := []contextloader.Option{
		contextloader.WithLogger(logger),
		contextloader.WithCacheBytes(cfg.Contexts.CacheBytes),
		contextloader.WithTimeout(cfg.Contexts.Timeout),
		contextloader.WithDefaultTTL(cfg.Contexts.DefaultTTL),
	}
	for _, p := range cfg.Contexts.Preload {
		loaderOpts = append(loaderOpts, contextloader.WithPreloadFile(p.URL, p.File))
	}
	loader, err := contextloader.New(loaderOpts...)
	if err != nil {
		closer.Close()
		return nil, err
	}

	decodeOpts := []rdf.Option{rdf.OptMaxInputBytes(cfg.Codec.MaxInputBytes)}
	if cfg.Codec.MaxTriples > 0 {
		decodeOpts = append(decodeOpts, rdf.OptMaxTriples(cfg.Codec.MaxTriples))
	}
	c := codec.New(
		codec.WithLogger(logger),
		codec.WithDocumentLoader(loader),
		codec.WithPrettyJSON(cfg.Codec.Pretty),
		codec.WithDecodeOptions(decodeOpts...),
	)
	return &app{cfg: cfg, logger: logger, closer: closer, loader: loader, codec: c}, nil
}

// baseFor returns the configured base URI, or the file URL of path.
func (a *app) baseFor(path string) (*url.URL, error) {
	if a.cfg.Codec.BaseURI != "" {
		return rdf.ParseIRI(a.cfg.Codec.BaseURI)
	}
	if path == "-" {
		return nil, fmt.Errorf("%w: --base is required when reading stdin", rdf.ErrConfig)
	}
	return fileURL(path)
}
