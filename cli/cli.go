package cli

// Version and Date should be set at build time using ldflags, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/ngc-helper/cli.Version=0.3.0' -X 'github.com/flarebyte/ngc-helper/cli.Date=2026-10-16'"
//
// Both binaries (ts-helper and js-runtime) report the same values.
var (
	Version string
	Date    string
)
