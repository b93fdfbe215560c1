package root

import (
	"context"

	"github.com/flarebyte/ngc-helper/internal/config"
	"github.com/flarebyte/ngc-helper/internal/ctxlog"
	"github.com/flarebyte/ngc-helper/internal/engine"
	"github.com/flarebyte/ngc-helper/internal/funcs"
	"github.com/flarebyte/ngc-helper/internal/policy"
	"github.com/spf13/cobra"
)

type runtimeFlags struct {
	cfgPath   string
	engine    string
	cacheFile string
	verbose   bool
}

func (f *runtimeFlags) bind(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.cfgPath, "config", "c", "", "Path to config file (.cue, .yaml)")
	pf.StringVar(&f.engine, "engine", "", "Engine override: js or lua")
	pf.StringVar(&f.cacheFile, "cache", "", "Function cache document path")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log to stderr")
}

// runtimeConfig loads the config file and applies flag overrides.
func (f *runtimeFlags) runtimeConfig() (config.Runtime, error) {
	cfg, err := config.Load(f.cfgPath)
	if err != nil {
		return config.Runtime{}, err
	}
	if f.engine != "" {
		cfg.Runtime.Engine = f.engine
	}
	if f.cacheFile != "" {
		cfg.Runtime.CacheFile = f.cacheFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Runtime{}, err
	}
	return cfg.Runtime, nil
}

func (f *runtimeFlags) registry(cmd *cobra.Command) (context.Context, *funcs.Registry, func(), error) {
	rt, err := f.runtimeConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	eng, err := engine.New(rt)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := ctxlog.New(f.verbose, cmd.ErrOrStderr())
	logger.Debug("runtime ready", "engine", eng.Name(), "cache", rt.CacheFile, "policy", rt.Policy != nil)
	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	reg := funcs.NewRegistry(eng, policy.New(rt.Policy), funcs.Cache{Path: rt.CacheFile})
	return ctx, reg, eng.Close, nil
}
