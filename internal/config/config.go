package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Engine names accepted by runtime.engine.
const (
	EngineJS  = "js"
	EngineLua = "lua"
)

// DefaultPolicyName mirrors the policy name the Angular JIT registers.
const DefaultPolicyName = "angular#unsafe-jit"

// Config is the full helper configuration. Every field has a usable default,
// so running without a config file is the common case.
type Config struct {
	ConfigVersion string
	Extractor     Extractor
	Runtime       Runtime
}

// Extractor holds the component scan settings.
type Extractor struct {
	Decorator        string
	SourceSuffixes   []string
	TestSuffixes     []string
	ExcludeDirs      []string
	RespectGitignore bool
}

// Runtime holds the function registry settings.
type Runtime struct {
	Engine    string
	CacheFile string
	// Policy is nil when no host security policy is available.
	Policy *Policy
	Lua    LuaSandbox
}

// Policy describes the host security policy mediating script creation.
type Policy struct {
	Name           string
	Deny           []string
	MaxSourceBytes int
}

// LuaSandbox holds the Lua engine limits.
type LuaSandbox struct {
	TimeoutMs        int
	MemoryLimitBytes int
	Libs             LuaLibs
}

// LuaLibs is the Lua standard library allowlist.
type LuaLibs struct {
	Base   bool
	Table  bool
	String bool
	Math   bool
}

// DefaultCacheFile is the well-known cache document path shared by every
// js-runtime invocation on the host.
func DefaultCacheFile() string {
	return filepath.Join(os.TempDir(), "ngc-go-js-runtime", "functions.json")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Extractor: Extractor{
			Decorator:      "Component",
			SourceSuffixes: []string{".ts"},
			TestSuffixes:   []string{".spec.ts"},
			ExcludeDirs:    []string{"node_modules", "dist"},
		},
		Runtime: Runtime{
			Engine:    EngineJS,
			CacheFile: DefaultCacheFile(),
			Lua: LuaSandbox{
				Libs: LuaLibs{Base: true, Table: true, String: true, Math: true},
			},
		},
	}
}

// Load reads a .cue, .yaml or .yml config file on top of Default.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		err = loadCUE(path, &cfg)
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: expected .cue, .yaml or .yml")
	}
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints that decoding cannot express.
func (c Config) Validate() error {
	if err := checkConfigVersion(c.ConfigVersion); err != nil {
		return err
	}
	if c.Extractor.Decorator == "" {
		return fmt.Errorf("invalid value for field: extractor.decorator (must not be empty)")
	}
	if len(c.Extractor.SourceSuffixes) == 0 {
		return fmt.Errorf("invalid value for field: extractor.sourceSuffixes (must not be empty)")
	}
	switch c.Runtime.Engine {
	case EngineJS, EngineLua:
	default:
		return fmt.Errorf("invalid value for field: runtime.engine (expected %q or %q)", EngineJS, EngineLua)
	}
	if c.Runtime.CacheFile == "" {
		return fmt.Errorf("invalid value for field: runtime.cacheFile (must not be empty)")
	}
	if c.Runtime.Policy != nil && c.Runtime.Policy.MaxSourceBytes < 0 {
		return fmt.Errorf("invalid value for field: runtime.policy.maxSourceBytes (must be >= 0)")
	}
	return nil
}
