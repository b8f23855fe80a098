// Package cmd implements the commands of the epp command line.
//
// Every command reads an equation from its arguments, or from standard
// input when the only argument is "-", and shares the flags of [Globals]:
// variable bindings, output format, and compilation limits.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the YAML
	// configuration file.
	ConfigIdentifier = "config"
)
