package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/leslieo2/go-lab-status/internal/config"
	"github.com/leslieo2/go-lab-status/internal/constants"
	"github.com/leslieo2/go-lab-status/internal/labapi"
	"github.com/leslieo2/go-lab-status/internal/notify"
	"github.com/leslieo2/go-lab-status/internal/observability"
	"github.com/leslieo2/go-lab-status/internal/status"
	"github.com/leslieo2/go-lab-status/internal/timefmt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], notify.HostEnv(), os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("%s: %v", constants.ServiceName, err)
	}
}

func run(ctx context.Context, args []string, env notify.Env, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet(constants.ServiceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Path to configuration file (YAML or JSON)")
	showVersion := fs.Bool("version", false, "Print version and exit")
	cliFlags := &config.CLIFlags{
		FlagSet:         fs,
		Token:           fs.String("token", "", "Appointment access token"),
		DOB:             fs.String("dob", "", "Date of birth registered with the appointment"),
		BaseURL:         fs.String("url", constants.DefaultBaseURL, "Lookup URL template; {token} is replaced with the access token"),
		Timezone:        fs.String("timezone", constants.DefaultTimezone, "IANA timezone used to display times"),
		Output:          fs.String("output", constants.OutputAuto, "Output sink: auto, console, alert"),
		LogLevel:        fs.String("log-level", "warn", "Log level: debug, info, warn, error"),
		MetricsTextfile: fs.String("metrics-textfile", "", "Write run metrics to this node_exporter textfile"),
		Tracing:         fs.Bool("tracing", false, "Export trace spans to stderr"),
	}
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintf(stdout, "%s %s\n", constants.ServiceName, constants.Version)
		return err
	}

	// Load configuration with precedence (CLI > Env > File > Defaults)
	cfg, err := config.LoadConfig(*configFile, cliFlags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("configuration loaded",
		zap.Any("lab", cfg.Lab.Redacted()),
		zap.String("output", cfg.Output.Sink),
	)

	// The sink is chosen before anything is fetched.
	notifier, err := notify.Select(cfg.Output, env, stdout)
	if err != nil {
		return err
	}
	logger.Debug("output sink selected", zap.String("sink", notifier.Name()))

	normalizer, err := timefmt.New(cfg.Lab.Timezone)
	if err != nil {
		return err
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if path := cfg.Observability.Metrics.Textfile; path != "" {
		defer func() {
			if err := metrics.WriteTextfile(path); err != nil {
				logger.Warn("failed to write metrics", zap.Error(err))
			}
		}()
	}

	tracer, err := observability.NewTracerWithWriter(cfg.Observability.Tracing, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shutdown tracer", zap.Error(err))
		}
	}()

	client, err := labapi.NewClient(cfg.Lab.BaseURL,
		labapi.WithLogger(logger),
		labapi.WithMetrics(metrics),
		labapi.WithTracer(tracer),
	)
	if err != nil {
		return fmt.Errorf("failed to create lab client: %w", err)
	}

	ctx, span := tracer.StartSpan(ctx, "status.check")
	defer span.End()

	record, err := client.Fetch(ctx, cfg.Lab.Token, cfg.Lab.DOB)
	if err != nil {
		logger.Error("appointment lookup failed", zap.Error(err))
		return err
	}

	report, err := status.Render(record, normalizer)
	if err != nil {
		logger.Error("failed to render status", zap.Error(err))
		return fmt.Errorf("failed to render status: %w", err)
	}
	metrics.SetSampleStage(int(report.Stage))
	logger.Info("status rendered", zap.Stringer("stage", report.Stage))

	if err := notifier.Notify(ctx, report.Message); err != nil {
		return err
	}
	metrics.MarkRun(normalizer.Now())

	return nil
}

// printUsage prints the usage information
func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s [flags]\n", constants.ServiceName)
	fmt.Fprintf(w, "\nLooks up a lab test appointment and reports how far the sample has progressed.\n")
	fmt.Fprintf(w, "\nFlags:\n%s", fs.FlagUsages())
	fmt.Fprintf(w, "\nEnvironment variables:\n")
	fmt.Fprintf(w, "  %s, %s, %s, %s\n", constants.EnvToken, constants.EnvDOB, constants.EnvBaseURL, constants.EnvTimezone)
	fmt.Fprintf(w, "  %s, %s, %s, %s\n", constants.EnvOutput, constants.EnvAlertTitle, constants.EnvLogLevel, constants.EnvLogFormat)
	fmt.Fprintf(w, "  %s, %s\n", constants.EnvMetricsTextfile, constants.EnvTracing)
	fmt.Fprintf(w, "\nExample usage:\n")
	fmt.Fprintf(w, "  %s --token abc123 --dob 1990-01-31\n", constants.ServiceName)
	fmt.Fprintf(w, "  %s --config ./lab-status.yaml --output console\n", constants.ServiceName)
	fmt.Fprintf(w, "  %s=abc123 %s=1990-01-31 %s\n", constants.EnvToken, constants.EnvDOB, constants.ServiceName)
}
