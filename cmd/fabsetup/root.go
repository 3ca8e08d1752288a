/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	reqContext "context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/fabsetup/fabric-setup-go/pkg/common/errors/retry"
	"github.com/fabsetup/fabric-setup-go/pkg/common/logging"
	"github.com/fabsetup/fabric-setup-go/pkg/core/config"
	"github.com/fabsetup/fabric-setup-go/pkg/fabsdk"
)

const (
	loggerModule = "fabsetup/cmd"
	configEnvVar = "FABSETUP_CONFIG"
)

// cmdFactory holds the global flags and builds the SDK on demand
type cmdFactory struct {
	out    io.Writer
	errOut io.Writer

	configFile    string
	timeout       time.Duration
	metricsListen string

	// retry flags override the configured retry policy when set
	noRetry       bool
	retryInterval time.Duration
	retryAttempts int

	registry *prometheus.Registry
	sdk      *fabsdk.FabricSDK
	logger   *logging.Logger
	stop     func()
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	f := &cmdFactory{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "fabsetup",
		Short:         "Drive Fabric channel setup to completion.",
		Long:          "Create channels, join peers and update anchor peers, retrying while the network is not ready yet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			f.close()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&f.configFile, "config", "c", os.Getenv(configEnvVar), "Path to the network config file (env "+configEnvVar+")")
	flags.DurationVar(&f.timeout, "timeout", 0, "Bound on the wall-clock time of the command; 0 waits until done or interrupted")
	flags.StringVar(&f.metricsListen, "metrics-listen", "", "Serve prometheus metrics on this address while the command runs (overrides metrics.listenAddress)")
	flags.BoolVar(&f.noRetry, "no-retry", false, "Do not retry transient failures")
	flags.DurationVar(&f.retryInterval, "retry-interval", 0, "Wait between attempts (overrides retry.interval)")
	flags.IntVar(&f.retryAttempts, "retry-attempts", 0, "Maximum number of retries, 0 is unbounded (overrides retry.attempts)")

	rootCmd.AddCommand(channelCmd(f))
	rootCmd.AddCommand(orderersCmd(f))
	return rootCmd
}

// SDK loads the configuration and starts the metrics endpoint on first use
func (f *cmdFactory) SDK() (*fabsdk.FabricSDK, error) {
	if f.sdk != nil {
		return f.sdk, nil
	}
	if f.configFile == "" {
		return nil, errors.Errorf("config file is required: use --config or %s", configEnvVar)
	}

	f.registry = prometheus.NewRegistry()
	sdk, err := fabsdk.New(config.FromFile(f.configFile),
		fabsdk.WithLogWriter(f.errOut),
		fabsdk.WithMetricsRegisterer(f.registry),
	)
	if err != nil {
		return nil, err
	}
	f.sdk = sdk
	f.logger = logging.NewLogger(loggerModule, sdk.LoggerProvider())

	addr := f.metricsListen
	if addr == "" {
		addr = sdk.Config().Metrics.ListenAddress
	}
	if addr != "" {
		stop, err := f.startMetricsServer(addr)
		if err != nil {
			return nil, err
		}
		f.stop = stop
	}
	return sdk, nil
}

// retryOpts returns the retry policy after applying the retry flags
func (f *cmdFactory) retryOpts(cmd *cobra.Command) retry.Opts {
	opts := f.sdk.Config().RetryOpts()
	if f.noRetry {
		return retry.NoRetry
	}
	if cmd.Flags().Changed("retry-interval") {
		if f.retryInterval <= 0 {
			return retry.NoRetry
		}
		if !opts.Enabled() {
			opts = retry.DefaultOpts
		}
		opts.Interval = f.retryInterval
	}
	if cmd.Flags().Changed("retry-attempts") {
		opts.Attempts = f.retryAttempts
	}
	return opts
}

// context returns the command context bounded by --timeout
func (f *cmdFactory) context(cmd *cobra.Command) (reqContext.Context, reqContext.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = reqContext.Background()
	}
	if f.timeout > 0 {
		return reqContext.WithTimeout(ctx, f.timeout)
	}
	return reqContext.WithCancel(ctx)
}

func (f *cmdFactory) startMetricsServer(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "metrics listen failed")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(f.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			f.logger.Warnf("metrics server stopped: %s", err)
		}
	}()
	f.logger.Infof("serving metrics on %s", ln.Addr())

	return func() {
		ctx, cancel := reqContext.WithTimeout(reqContext.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			f.logger.Warnf("metrics server shutdown failed: %s", err)
		}
	}, nil
}

func (f *cmdFactory) close() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

// print writes v as YAML to the command output
func (f *cmdFactory) print(v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal of result failed")
	}
	_, err = f.out.Write(b)
	return err
}
