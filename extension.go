package main

import "go.uber.org/multierr"

// Extension is implemented by a `--extension` plugin: Initialize is
// called once at startup with the live server, and is expected to call
// server.AddCommand for whatever commands it wants to register. This
// mirrors the source fragment's `initialize(server)` hook (spec §6).
type Extension interface {
	Initialize(server *Server) error
}

// extensionRegistry maps a configured --extension name to its
// constructor. Real plugin loading (shared objects, Go plugin package)
// is out of scope for this in-process registry; extensions ship as
// named Go values wired in at build time, e.g. in main.go.
var extensionRegistry = map[string]func() Extension{}

// RegisterExtension makes a named extension constructor available to
// be loaded by name via --extension.
func RegisterExtension(name string, constructor func() Extension) {
	extensionRegistry[name] = constructor
}

// loadExtensions initializes every named extension against server,
// aggregating failures with multierr so a misconfigured --extension
// list across several names is reported in one shot instead of only
// the first failure (AMBIENT STACK, Error handling).
func loadExtensions(server *Server, names []string) error {
	var errs error
	for _, name := range names {
		constructor, ok := extensionRegistry[name]
		if !ok {
			errs = multierr.Append(errs, newCmdError("unknown extension %q", name))
			continue
		}
		ext := constructor()
		if err := ext.Initialize(server); err != nil {
			errs = multierr.Append(errs, newCmdError("extension %q failed to initialize: %s", name, err))
		}
	}
	return errs
}
