// Package pkg holds project metadata and the well-known directories of the
// epp executable.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It prefixes environment variables and names
	// the configuration and cache directories.
	Name = "epp"
	// Description summarizes the command in help output.
	Description = "Parse, check, evaluate, and transform equations"
)

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
