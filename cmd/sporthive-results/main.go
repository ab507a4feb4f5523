// Command sporthive-results collects the complete classification of one race
// from the Sporthive event results API and writes it as JSON or CSV.
//
// Usage:
//
//	sporthive-results --event 6855879561074155264 --race 480016 --splits
//
// Every flag can also be set through a SPORTHIVE_<FLAG> environment variable,
// a .env file (EVENT and RACE are accepted unprefixed) or a YAML config file.
package main

import "os"

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
