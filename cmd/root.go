package cmd

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fabric-ops/vrfctl/pkg/cache"
	"github.com/fabric-ops/vrfctl/pkg/ndfc"
	"github.com/fabric-ops/vrfctl/pkg/version"
)

var (
	controllerURL  string
	token          string
	debug          bool
	cacheTTL       time.Duration
	requestTimeout time.Duration
	retryAttempts  int
	metricsAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "vrfctl",
	Short: "Reconcile VRFs and VRF attachments on a DCNM/NDFC fabric controller",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&controllerURL, "controller-url", "", "Base URL of the fabric controller")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "API token for the fabric controller")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logs")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", 5*time.Minute, "TTL for cached controller state")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", 30*time.Second, "Timeout for a single controller request")
	rootCmd.PersistentFlags().IntVar(&retryAttempts, "retries", 3, "Attempts per controller request; non-retryable rejections are never repeated")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-bind-address", "", "Expose cache metrics on this address while the command runs")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Debug mode switches to the zap
// development config, matching the log levels the rest of the code uses
// through V(1).
func newLogger() (logr.Logger, error) {
	var zl *zap.Logger
	var err error
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}

// newRun wires the per-invocation collaborators: one cache store and
// manager per run, a retrying sender, and an optional metrics endpoint.
func newRun(log logr.Logger) (ndfc.Sender, *cache.Manager) {
	store := cache.NewStore(cacheTTL)
	manager := cache.NewManager(store, cacheTTL)

	var sender ndfc.Sender = ndfc.NewHTTPSender(controllerURL, token, requestTimeout, log)
	if retryAttempts > 1 {
		sender = ndfc.NewRetrySender(sender, retryAttempts, log)
	}

	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(cache.NewMetrics(store))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error(err, "metrics endpoint failed", "address", metricsAddr)
			}
		}()
	}

	return sender, manager
}

func printVersion(log logr.Logger) {
	log.Info(fmt.Sprintf("vrfctl Version: %s", version.Current()))
	log.Info(fmt.Sprintf("Go Version: %s", runtime.Version()))
	log.Info(fmt.Sprintf("Go OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH))
}
