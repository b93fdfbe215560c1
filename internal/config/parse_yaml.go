package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config with optional fields so absent keys keep defaults.
type yamlConfig struct {
	ConfigVersion *string `yaml:"configVersion"`
	Extractor     *struct {
		Decorator        *string  `yaml:"decorator"`
		SourceSuffixes   []string `yaml:"sourceSuffixes"`
		TestSuffixes     []string `yaml:"testSuffixes"`
		ExcludeDirs      []string `yaml:"excludeDirs"`
		RespectGitignore *bool    `yaml:"respectGitignore"`
	} `yaml:"extractor"`
	Runtime *struct {
		Engine    *string `yaml:"engine"`
		CacheFile *string `yaml:"cacheFile"`
		Policy    *struct {
			Name           *string  `yaml:"name"`
			Deny           []string `yaml:"deny"`
			MaxSourceBytes *int     `yaml:"maxSourceBytes"`
		} `yaml:"policy"`
		Lua *struct {
			TimeoutMs        *int `yaml:"timeoutMs"`
			MemoryLimitBytes *int `yaml:"memoryLimitBytes"`
			Libs             *struct {
				Base   *bool `yaml:"base"`
				Table  *bool `yaml:"table"`
				String *bool `yaml:"string"`
				Math   *bool `yaml:"math"`
			} `yaml:"libs"`
		} `yaml:"lua"`
	} `yaml:"runtime"`
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var y yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %v", err)
	}
	y.apply(cfg)
	return nil
}

func (y yamlConfig) apply(cfg *Config) {
	setString(&cfg.ConfigVersion, y.ConfigVersion)
	if e := y.Extractor; e != nil {
		setString(&cfg.Extractor.Decorator, e.Decorator)
		setStrings(&cfg.Extractor.SourceSuffixes, e.SourceSuffixes)
		setStrings(&cfg.Extractor.TestSuffixes, e.TestSuffixes)
		setStrings(&cfg.Extractor.ExcludeDirs, e.ExcludeDirs)
		setBool(&cfg.Extractor.RespectGitignore, e.RespectGitignore)
	}
	r := y.Runtime
	if r == nil {
		return
	}
	setString(&cfg.Runtime.Engine, r.Engine)
	setString(&cfg.Runtime.CacheFile, r.CacheFile)
	if p := r.Policy; p != nil {
		pol := &Policy{Name: DefaultPolicyName, Deny: p.Deny}
		setString(&pol.Name, p.Name)
		setInt(&pol.MaxSourceBytes, p.MaxSourceBytes)
		cfg.Runtime.Policy = pol
	}
	if l := r.Lua; l != nil {
		setInt(&cfg.Runtime.Lua.TimeoutMs, l.TimeoutMs)
		setInt(&cfg.Runtime.Lua.MemoryLimitBytes, l.MemoryLimitBytes)
		if libs := l.Libs; libs != nil {
			setBool(&cfg.Runtime.Lua.Libs.Base, libs.Base)
			setBool(&cfg.Runtime.Lua.Libs.Table, libs.Table)
			setBool(&cfg.Runtime.Lua.Libs.String, libs.String)
			setBool(&cfg.Runtime.Lua.Libs.Math, libs.Math)
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v []string) {
	if v != nil {
		*dst = v
	}
}
