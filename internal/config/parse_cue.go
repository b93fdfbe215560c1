package config

import "cuelang.org/go/cue"

func loadCUE(path string, cfg *Config) error {
	v, err := compileCUE(path)
	if err != nil {
		return err
	}
	if err := decodeString(v, "configVersion", "configVersion", &cfg.ConfigVersion); err != nil {
		return err
	}
	if ev, ok := field(v, "extractor"); ok {
		if err := parseExtractorSection(ev, &cfg.Extractor); err != nil {
			return err
		}
	}
	if rv, ok := field(v, "runtime"); ok {
		if err := parseRuntimeSection(rv, &cfg.Runtime); err != nil {
			return err
		}
	}
	return nil
}

func parseExtractorSection(v cue.Value, e *Extractor) error {
	if err := decodeString(v, "decorator", "extractor.decorator", &e.Decorator); err != nil {
		return err
	}
	if err := decodeStrings(v, "sourceSuffixes", "extractor.sourceSuffixes", &e.SourceSuffixes); err != nil {
		return err
	}
	if err := decodeStrings(v, "testSuffixes", "extractor.testSuffixes", &e.TestSuffixes); err != nil {
		return err
	}
	if err := decodeStrings(v, "excludeDirs", "extractor.excludeDirs", &e.ExcludeDirs); err != nil {
		return err
	}
	return decodeBool(v, "respectGitignore", "extractor.respectGitignore", &e.RespectGitignore)
}

func parseRuntimeSection(v cue.Value, r *Runtime) error {
	if err := decodeString(v, "engine", "runtime.engine", &r.Engine); err != nil {
		return err
	}
	if err := decodeString(v, "cacheFile", "runtime.cacheFile", &r.CacheFile); err != nil {
		return err
	}
	if pv, ok := field(v, "policy"); ok {
		p := &Policy{Name: DefaultPolicyName}
		if err := decodeString(pv, "name", "runtime.policy.name", &p.Name); err != nil {
			return err
		}
		if err := decodeStrings(pv, "deny", "runtime.policy.deny", &p.Deny); err != nil {
			return err
		}
		if err := decodeInt(pv, "maxSourceBytes", "runtime.policy.maxSourceBytes", &p.MaxSourceBytes); err != nil {
			return err
		}
		r.Policy = p
	}
	if lv, ok := field(v, "lua"); ok {
		if err := parseLuaSandboxSection(lv, &r.Lua); err != nil {
			return err
		}
	}
	return nil
}
