// Command dispatchdesk-mock-api serves a fake logistics backend for local
// development and demos.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/pflag"

	"github.com/truckline/dispatchdesk/internal/adapters"
	"github.com/truckline/dispatchdesk/pkg/mockbackend"
)

type options struct {
	addr     string
	apiPath  string
	token    string
	seed     uint64
	count    int
	shapes   []string
	latency  time.Duration
	churn    time.Duration
	validate bool
	debug    bool
}

func main() {
	var opts options

	fs := pflag.NewFlagSet("dispatchdesk-mock-api", pflag.ExitOnError)
	fs.StringVar(&opts.addr, "addr", "127.0.0.1:8080", "Address to listen on")
	fs.StringVar(&opts.apiPath, "api-path", "/api", "Path prefix of the API")
	fs.StringVar(&opts.token, "token", "", "Require this bearer token when set")
	fs.Uint64Var(&opts.seed, "seed", 1, "Seed for the generated data")
	fs.IntVar(&opts.count, "count", 200, "Entities generated per collection")
	fs.StringSliceVar(&opts.shapes, "shape", nil, "Response envelope per collection, e.g. orders=paged (array, data, paged, broken)")
	fs.DurationVar(&opts.latency, "latency", 0, "Delay added to every response")
	fs.DurationVar(&opts.churn, "churn", 0, "Change a random entity status at this interval (0 disables)")
	fs.BoolVar(&opts.validate, "validate", true, "Validate requests against the OpenAPI document")
	fs.BoolVar(&opts.debug, "debug", false, "Log every request")
	_ = fs.Parse(os.Args[1:])

	if err := run(opts); err != nil {
		log.Fatalf("mock api: %v", err)
	}
}

func run(opts options) error {
	logger := adapters.NewSimpleLoggerAdapter(opts.debug)

	state := mockbackend.NewState()
	if err := state.Seed(opts.seed, opts.count); err != nil {
		return fmt.Errorf("failed to seed data: %w", err)
	}

	if err := applyShapes(state, opts.shapes); err != nil {
		return err
	}

	srv, err := mockbackend.New(state,
		mockbackend.WithLogger(logger),
		mockbackend.WithAPIPath(opts.apiPath),
		mockbackend.WithToken(opts.token),
		mockbackend.WithLatency(opts.latency),
		mockbackend.WithValidation(opts.validate),
	)
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.churn > 0 {
		faker := gofakeit.New(opts.seed)
		go srv.Churn(ctx, opts.churn, func(n int) int { return faker.IntN(n) })
	}

	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("Mock API listening on http://%s%s with %d entities per collection", opts.addr, opts.apiPath, opts.count)
	fmt.Printf("🚚 Mock API listening on http://%s%s\n", opts.addr, opts.apiPath)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// applyShapes parses collection=shape pairs.
func applyShapes(state *mockbackend.State, pairs []string) error {
	for _, pair := range pairs {
		collection, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --shape %q: want collection=shape", pair)
		}

		collection = strings.TrimSpace(collection)
		if !state.HasCollection(collection) {
			return fmt.Errorf("invalid --shape %q: unknown collection %q", pair, collection)
		}

		shape, err := mockbackend.ParseShape(raw)
		if err != nil {
			return fmt.Errorf("invalid --shape %q: %w", pair, err)
		}

		state.SetShape(collection, shape)
	}

	return nil
}
