package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boreq/errors"
	"github.com/boreq/rentals"
	"github.com/boreq/rentals/api"
	"github.com/boreq/rentals/config"
	"github.com/dgraph-io/badger/v4"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	conf, err := config.FromEnvironment()
	if err != nil {
		return errors.Wrap(err, "error loading the config")
	}

	logger := newLogger(conf.LogLevel)
	slog.SetDefault(logger)

	storage, err := openStorage(conf)
	if err != nil {
		return errors.Wrap(err, "error opening the storage")
	}
	defer closeAndLog(logger, "storage", storage.Close)

	compression, err := rentals.CompressionByName(conf.Compression)
	if err != nil {
		return errors.Wrap(err, "error creating the compression")
	}

	codec := rentals.NewRecordCodec(compression)

	var journal rentals.Journal
	if conf.JournalDir != "" {
		margaretJournal, err := rentals.NewMargaretJournal(conf.JournalDir, codec)
		if err != nil {
			return errors.Wrap(err, "error opening the journal")
		}
		defer closeAndLog(logger, "journal", margaretJournal.Close)
		journal = margaretJournal
	}

	service, err := rentals.NewService(storage, codec, journal, logger)
	if err != nil {
		return errors.Wrap(err, "error creating the service")
	}

	server := &http.Server{
		Addr:    conf.Address,
		Handler: api.NewHandler(service, logger).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errC := make(chan error, 1)
	go func() {
		logger.Info("listening", "address", conf.Address, "backend", conf.Backend, "compression", compression.Name())
		errC <- server.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return errors.Wrap(err, "error serving")
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error shutting down the server")
	}

	return nil
}

func openStorage(conf config.Config) (rentals.Storage, error) {
	switch conf.Backend {
	case config.BackendBadger:
		return rentals.NewBadgerStorage(conf.Dir, func(options *badger.Options) {
			options.SyncWrites = true
		})
	default:
		return rentals.NewBoltStorage(conf.Dir, nil)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func closeAndLog(logger *slog.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Error("error closing", "name", name, "err", err)
	}
}
