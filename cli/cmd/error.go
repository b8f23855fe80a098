package cmd

import "github.com/ardnew/epp/lang"

var (
	ErrJSONMarshal      = lang.NewError("marshal JSON")
	ErrYAMLMarshal      = lang.NewError("marshal YAML")
	ErrWriteConfig      = lang.NewError("write configuration file")
	ErrFileExists       = lang.NewError("file exists (use --force to overwrite)")
	ErrBindingsNotFound = lang.NewError("bindings file not found")
	ErrNotTerminal      = lang.NewError("standard input is not a terminal")
	ErrInvalidRange     = lang.NewError("invalid search range")
)
