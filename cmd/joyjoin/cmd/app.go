// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     cmd
// Description: Wiring shared by the CLI commands
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/remote"
	"github.com/themandi/JoyJoin/pkg/core/config"
	"github.com/themandi/JoyJoin/pkg/core/logging"
	"github.com/themandi/JoyJoin/pkg/core/metrics"
	"github.com/themandi/JoyJoin/pkg/core/version"
)

// app bundles everything a command needs to talk to the site
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	metrics   *metrics.Metrics
	policy    registration.StalePolicy
	checker   remote.Checker
	submitter *remote.FormSubmitter
}

// loadConfig reads the config file and applies flag overrides.
// Without any config file the built-in defaults are used.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		cfg.Server.BaseURL = baseURL
	}
	if csrfToken != "" {
		cfg.Server.CSRFToken = csrfToken
	}
	if stalePolicy != "" {
		cfg.Engine.StaleResponses = stalePolicy
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, cfg.Validate()
}

// newApp builds the logger, metrics and HTTP collaborators.
// quietConsole keeps logs off the terminal unless a log file is configured.
func newApp(quietConsole bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logging.LoggerConfig{
		ServiceName: "joyjoin",
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		File:        cfg.Logging.File,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	}
	if quietConsole && logCfg.File == "" {
		logCfg.Output = io.Discard
	}
	log := logging.NewLogger(logCfg)

	policy, err := registration.ParseStalePolicy(cfg.Engine.StaleResponses)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		serveMetrics(cfg.Metrics.Addr, reg, log)
	}

	userAgent := cfg.Server.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	transport, err := remote.NewHTTPTransport(remote.TransportConfig{
		Timeout:   cfg.Server.Timeout.Duration,
		UserAgent: userAgent,
	}, log)
	if err != nil {
		return nil, err
	}

	routes := remote.DefaultRoutes()
	routes[remote.EndpointLoginAvailable] = remote.Route{Path: cfg.Endpoints.LoginAvailable, Param: "login"}
	routes[remote.EndpointPasswordNotCommon] = remote.Route{Path: cfg.Endpoints.PasswordNotCommon, Param: "password"}
	routes[remote.EndpointAgeEligible] = remote.Route{Path: cfg.Endpoints.AgeEligible, Param: "date"}

	formChecker, err := remote.NewFormChecker(transport, cfg.Server.BaseURL, routes, cfg.Server.CSRFToken, log)
	if err != nil {
		return nil, err
	}
	submitter, err := remote.NewFormSubmitter(transport, cfg.Server.BaseURL, cfg.Endpoints.Submit, cfg.Server.CSRFToken)
	if err != nil {
		return nil, err
	}

	log.Debug("client configured",
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Stringer("stale_responses", policy),
		zap.String("version", version.Client))

	return &app{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		policy:    policy,
		checker:   remote.NewInstrumentedChecker(formChecker, m),
		submitter: submitter,
	}, nil
}

// serveMetrics exposes reg in the background
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	log.Info("metrics server started", zap.String("addr", addr))
}

func (a *app) close() {
	_ = a.log.Sync()
}
