package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/libinterpolation/hub"
	"github.com/sgostarter/libinterpolation/metrics"
	"github.com/sgostarter/libinterpolation/platform"
	"github.com/sgostarter/libinterpolation/sensor"
	"github.com/sgostarter/libinterpolation/sensor/impls/fmsink"
	"github.com/sgostarter/libinterpolation/sensor/impls/redissink"
	"github.com/spf13/cobra"
)

var errBadInputLine = errors.New("bad input line")

type runOptions struct {
	configFile  string
	stateDir    string
	redisDNS    string
	metricsAddr string
	verbose     bool

	handlerTimeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "interpolation",
		Short: "Map entity states through cubic spline sensors",
		Long: "Reads sensor definitions from a YAML file, then reads entity_id=value lines from stdin,\n" +
			"feeds them to the sensors and prints every derived sensor state after each line.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "sensors.yaml", "sensor definitions")
	cmd.Flags().StringVar(&opts.stateDir, "state-dir", "", "mirror derived states to a JSON file in this directory")
	cmd.Flags().StringVar(&opts.redisDNS, "redis", "", "mirror derived states to redis, e.g. redis://localhost:6379/0")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	cmd.Flags().DurationVar(&opts.handlerTimeout, "handler-timeout", 5*time.Second,
		"log sensors whose update runs longer than this; 0 disables")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to the console")

	return cmd
}

func run(ctx context.Context, opts *runOptions, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := l.NewNopLoggerWrapper()
	if opts.verbose {
		logger = l.NewConsoleLoggerWrapper()
	}

	cfgs, err := platform.LoadConfigFile(opts.configFile)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	sensorOpts := []sensor.Option{sensor.ObserverOption(metrics.NewMetrics(registry))}

	if opts.stateDir != "" {
		_ = pathutils.MustDirExists(opts.stateDir)

		sensorOpts = append(sensorOpts, sensor.SinkOption(fmsink.NewFMStateSink(opts.stateDir, nil)))
	}

	if opts.redisDNS != "" {
		redisOpts, err := redis.ParseURL(opts.redisDNS)
		if err != nil {
			return err
		}

		redisCli := redis.NewClient(redisOpts)

		defer func() {
			_ = redisCli.Close()
		}()

		sensorOpts = append(sensorOpts, sensor.SinkOption(redissink.NewRedisStateSink(redisCli, "cli")))
	}

	if opts.metricsAddr != "" {
		server := &http.Server{
			Addr:              opts.metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithFields(l.ErrorField(err)).Error("metrics server failed")
			}
		}()

		defer func() {
			_ = server.Close()
		}()
	}

	h := hub.NewHub(logger, hub.HandlerTimeoutOption(opts.handlerTimeout))

	defer func() {
		h.TriggerStop()
		h.Wait()
	}()

	p, err := platform.NewPlatform(h, logger, sensorOpts...)
	if err != nil {
		return err
	}

	defer p.Close()

	ids, errs := p.Setup(cfgs)
	for idx, err := range errs {
		fmt.Fprintf(out, "skip sensor #%d: %v\n", idx, err)
	}

	if len(ids) == 0 {
		return platform.ErrEmptyConfigs
	}

	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entityID, value, ok := strings.Cut(line, "=")
		if !ok {
			fmt.Fprintf(out, "%v: %q\n", errBadInputLine, line)

			continue
		}

		if err = h.Set(strings.TrimSpace(entityID), strings.TrimSpace(value), nil); err != nil {
			return err
		}

		// one flush per hop of the longest sensor chain
		for range ids {
			if err = h.Flush(ctx); err != nil {
				return err
			}
		}

		if err = h.Flush(ctx); err != nil {
			return err
		}

		printStates(out, h, p)
	}

	return scanner.Err()
}

func printStates(out io.Writer, h hub.Hub, p platform.Platform) {
	for _, id := range p.IDs() {
		s, err := p.Get(id)
		if err != nil {
			continue
		}

		value := hub.StateUnknown
		if state, ok := h.Get(s.EntityID()); ok {
			value = state.Value
		}

		if unit := s.Unit(); unit != "" && value != hub.StateUnknown && value != hub.StateUnavailable {
			value += " " + unit
		}

		fmt.Fprintf(out, "%s=%s\n", s.EntityID(), value)
	}
}
