// Package config loads server configurations for the Seastrike relay
// server.
//
// Configurations are JSON files in a directory, loaded by name and cached.
// A built-in default (localhost:8080, wide-open origins, silent refusals,
// colored logs) applies when no file is present, so the server runs with no
// configuration at all.
package config
