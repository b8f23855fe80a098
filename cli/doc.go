// Package cli contains the command line interface for epp.
//
// # Usage
//
// An equation given without a command is evaluated:
//
//	epp -D x=2 'x^2 = 4'
//	epp diff 'sin(x) * x'
//	epp solve 'x^3 - 2*x = 1'
//
// Variables are bound with -D NAME=VALUE or loaded from YAML files given
// with -b. A bindings file named without a directory is searched for in the
// directories of $EPP_PATH, the working directory, and the configuration
// directory, with or without a .yaml or .yml extension.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the configuration directory,
// whose top-level "config" mapping holds flag values. Nested mappings are
// joined with hyphens to form flag names:
//
//	config:
//	  epsilon: 1e-9
//	  output: json
//	  log:
//	    level: debug
//
// The init command writes such a file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, DateTime, none, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o epp .
//
// which adds --pprof-mode (cpu, heap, allocs, ...) and --pprof-dir.
package cli
