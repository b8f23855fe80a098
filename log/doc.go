// Package log is a small leveled wrapper around [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
// Loggers are values. [Logger.Wrap] derives a logger with a different
// configuration and [Logger.With] one that adds attributes to every
// message. The zero Logger discards everything, which lets packages accept
// an optional logger without checking for nil.
//
// Besides the slog levels, [LevelTrace] sits below [LevelDebug] for
// high-volume output such as per-stage pipeline tracing.
//
// Pretty output colorizes keys, values, and levels when the destination is
// a terminal and degrades to plain text otherwise.
//
// The package-level functions [Trace], [Debug], [Info], [Warn], and [Error]
// use a default logger writing to standard error, reconfigured with
// [Config].
package log
