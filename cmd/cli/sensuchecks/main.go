package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sprintfLogging "github.com/core-tools/hsu-core/pkg/logging/sprintf"

	"github.com/core-tools/hsu-sensu/pkg/config"
	"github.com/core-tools/hsu-sensu/pkg/errors"
	"github.com/core-tools/hsu-sensu/pkg/logging"
	"github.com/core-tools/hsu-sensu/pkg/monitoring"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	Descriptor  string `long:"descriptor" short:"d" description:"path to the deployment descriptor (YAML)" required:"true"`
	SearchPath  string `long:"search-path" description:"directory searched for server scripts before the descriptor's healthcheck search paths"`
	Output      string `long:"output" short:"o" description:"file to write check definitions to (default stdout)"`
	Format      string `long:"format" description:"check definitions format" choice:"json" choice:"yaml" default:"json"`
	LogFormat   string `long:"log-format" description:"log output format" choice:"text" choice:"json" default:"text"`
	LogLevel    string `long:"log-level" description:"minimum log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Concurrency int    `long:"concurrency" description:"number of checks processed at once" default:"1"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	logger, sync, err := newLogger(opts)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	logger.Debugf("opts: %+v", opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Errorf("Sensu check registration failed, kind: %s, error: %v", errors.KindOf(err), err)
		sync()
		os.Exit(1)
	}
}

func newLogger(opts flagOptions) (logging.Logger, func(), error) {
	level, ok := logging.ParseLevel(opts.LogLevel)
	if !ok {
		return nil, nil, fmt.Errorf("invalid log level: %s", opts.LogLevel)
	}

	if opts.LogFormat == "json" {
		zapConfig := logging.DefaultZapConfig()
		zapConfig.Level = opts.LogLevel
		funcs, sync, err := logging.NewZapLogFuncs(zapConfig)
		if err != nil {
			return nil, nil, err
		}
		return logging.NewLogger("", funcs), func() { _ = sync() }, nil
	}

	std := sprintfLogging.NewStdSprintfLogger()
	funcs := logging.WithMinLevel(level, logging.LogFuncs{
		Debugf: std.Debugf,
		Infof:  std.Infof,
		Warnf:  std.Warnf,
		Errorf: std.Errorf,
	})
	return logging.NewLogger(logPrefix("sensu-checks"), funcs), func() {}, nil
}

func run(ctx context.Context, opts flagOptions, logger logging.Logger) error {
	descriptor, err := config.LoadDescriptorFromFile(opts.Descriptor)
	if err != nil {
		return err
	}

	if len(descriptor.Sensu.Checks) == 0 {
		logger.Warnf("No Sensu checks defined in deployment descriptor, file: %s", opts.Descriptor)
	}

	dc, err := descriptor.DeploymentContext(logger)
	if err != nil {
		return err
	}

	logger.Infof("Registering Sensu checks, service: %s, platform: %s, slice: %s, count: %d",
		descriptor.Service.Name, dc.Platform, dc.Slice, len(descriptor.Sensu.Checks))

	doc, err := monitoring.RegisterChecks(ctx, descriptor.Sensu.Checks, dc, monitoring.RegisterOptions{
		SearchPath:  opts.SearchPath,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		return err
	}

	return writeDocument(doc, opts)
}

func writeDocument(doc *monitoring.Document, opts flagOptions) error {
	var w io.Writer = os.Stdout
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return errors.NewIOError("failed to create output file", err).WithContext("filename", opts.Output)
		}
		defer file.Close()
		w = file
	}

	return doc.Encode(w, opts.Format)
}
