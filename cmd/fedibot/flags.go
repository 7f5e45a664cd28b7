// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -config, -verbose and -version

package main

import "flag"

type cliArgs struct {
	config  string
	verbose bool
	version bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.config, "config", "", "Path to a YAML settings file (merged over ~/.fedibot/config.yaml)")
	flag.BoolVar(&args.verbose, "verbose", false, "Log debug output, including every dispatch")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
