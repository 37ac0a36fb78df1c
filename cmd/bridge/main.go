package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	stdiotransport "spirebridge/internal/adapter/game/stdio"
	httpadapter "spirebridge/internal/adapter/http"
	metricsinmem "spirebridge/internal/adapter/metrics/inmemory"
	gormrec "spirebridge/internal/adapter/recorder/gorm"
	jsonlrec "spirebridge/internal/adapter/recorder/jsonl"
	memrec "spirebridge/internal/adapter/recorder/memory"
	"spirebridge/internal/app/action"
	"spirebridge/internal/app/observe"
	"spirebridge/internal/app/ports"
	"spirebridge/internal/app/replay"
	"spirebridge/internal/app/session"
	"spirebridge/internal/app/status"
)

type config struct {
	Host       string `env:"SPIREBRIDGE_HOST" envDefault:"127.0.0.1"`
	Port       int    `env:"SPIREBRIDGE_PORT" envDefault:"7777"`
	Debug      bool   `env:"SPIREBRIDGE_DEBUG"`
	FixtureDir string `env:"SPIREBRIDGE_FIXTURE_DIR"`
	DBDSN      string `env:"SPIREBRIDGE_DB_DSN"`
	LogFile    string `env:"SPIREBRIDGE_LOG_FILE"`
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Stdout belongs to the game process; logs go to stderr or a file.
	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()

	recorder, closeRecorder, err := buildRecorder(cfg)
	if err != nil {
		logger.Error("recorder setup failed", "err", err)
		os.Exit(1)
	}
	defer closeRecorder()

	transport := stdiotransport.New(os.Stdin, os.Stdout)
	kpi := metricsinmem.NewRecorder()

	sess := session.New(session.Config{
		Transport: transport,
		Recorder:  recorder,
		Metrics:   kpi,
		Logger:    logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := sess.Run(ctx); err != nil {
			logger.Error("session stopped", "err", err)
		}
	}()

	h := httpadapter.Handler{
		StatusUC:  status.UseCase{Session: sess},
		ObserveUC: observe.UseCase{Session: sess},
		SubmitUC:  action.SubmitUseCase{Session: sess, Metrics: kpi},
		ClearUC:   action.ClearUseCase{Session: sess},
		ReplayUC:  replay.UseCase{Recorder: recorder},
		Session:   sess,
		KPI:       kpi,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	logger.Info("bridge listening", "addr", addr, "session", sess.ID())
	s.Spin()
}

func loadConfig(args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}

	flags := pflag.NewFlagSet("bridge", pflag.ContinueOnError)
	flags.StringVar(&cfg.Host, "host", cfg.Host, "address the HTTP server binds to")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "port the HTTP server binds to")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	flags.StringVar(&cfg.FixtureDir, "record-fixtures", cfg.FixtureDir, "directory to record run fixtures into (jsonl)")
	flags.StringVar(&cfg.DBDSN, "db-dsn", cfg.DBDSN, "postgres DSN to record run fixtures into")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file instead of stderr")
	if err := flags.Parse(args); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func buildLogger(cfg config) (*slog.Logger, func(), error) {
	out := os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { f.Close() }
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

// buildRecorder picks fixture storage: postgres when a DSN is given, jsonl
// files when a fixture dir is given, in-memory otherwise so /replay still
// works out of the box.
func buildRecorder(cfg config) (ports.RunRecorder, func(), error) {
	switch {
	case cfg.DBDSN != "":
		db, err := gormrec.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		rec, err := gormrec.NewRecorder(db)
		if err != nil {
			return nil, nil, err
		}
		return rec, func() {}, nil
	case cfg.FixtureDir != "":
		rec, err := jsonlrec.NewRecorder(cfg.FixtureDir)
		if err != nil {
			return nil, nil, err
		}
		return rec, func() { rec.Close() }, nil
	default:
		return memrec.NewRecorder(), func() {}, nil
	}
}
