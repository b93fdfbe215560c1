package config

import "cuelang.org/go/cue"

// parseLuaSandboxSection extracts optional lua sandbox settings.
func parseLuaSandboxSection(v cue.Value, s *LuaSandbox) error {
	if err := decodeInt(v, "timeoutMs", "runtime.lua.timeoutMs", &s.TimeoutMs); err != nil {
		return err
	}
	if err := decodeInt(v, "memoryLimitBytes", "runtime.lua.memoryLimitBytes", &s.MemoryLimitBytes); err != nil {
		return err
	}
	libs, ok := field(v, "libs")
	if !ok {
		return nil
	}
	if err := decodeBool(libs, "base", "runtime.lua.libs.base", &s.Libs.Base); err != nil {
		return err
	}
	if err := decodeBool(libs, "table", "runtime.lua.libs.table", &s.Libs.Table); err != nil {
		return err
	}
	if err := decodeBool(libs, "string", "runtime.lua.libs.string", &s.Libs.String); err != nil {
		return err
	}
	return decodeBool(libs, "math", "runtime.lua.libs.math", &s.Libs.Math)
}
