package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/birbparty/vrcsdk/internal/cache"
	"github.com/birbparty/vrcsdk/internal/config"
	"github.com/birbparty/vrcsdk/internal/telemetry"
	"github.com/birbparty/vrcsdk/objects"
	"github.com/birbparty/vrcsdk/sdk"
)

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	output string
	out    io.Writer

	cache cache.Cache
	api   sdk.Client
	vrc   *objects.Client
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.output == "" {
		a.output = cfg.Output
	}
	if a.output != "json" && a.output != "yaml" {
		return fmt.Errorf("unknown output format %q (want json or yaml)", a.output)
	}
	a.out = cmd.OutOrStdout()

	if err := telemetry.Init(cfg.Telemetry); err != nil {
		return err
	}
	log := telemetry.L()

	sdkCfg := cfg.SDKConfig().WithObserver(telemetry.NewLogObserver(log))

	a.cache, err = cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if a.cache != nil {
		sdkCfg = sdkCfg.WithResponseCache(cache.NewPrefixedCache(a.cache, cfg.CacheNamespace()), cfg.CacheTTL)
	}

	a.api, err = sdk.NewClient(sdkCfg)
	if err != nil {
		return err
	}
	a.vrc = objects.NewClient(a.api,
		objects.WithLogger(log),
		objects.WithEnrichConcurrency(cfg.EnrichConcurrency),
	)
	return nil
}

func (a *app) teardown() error {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return telemetry.Shutdown(ctx)
}

// me loads the current user, which friend favorites and account
// operations need.
func (a *app) me(ctx context.Context) (*objects.CurrentUser, error) {
	if u := a.vrc.Me(); u != nil {
		return u, nil
	}
	return a.vrc.FetchMe(ctx)
}

func (a *app) print(v any) error {
	return render(a.out, a.output, v)
}
