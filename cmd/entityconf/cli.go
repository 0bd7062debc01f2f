package main

import "flag"

// Options holds CLI options for the config check tool.
type Options struct {
	ConfigPath string
	Validate   bool
	Watch      bool
	LogLevel   string
	LogFormat  string
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
	fs := flag.NewFlagSet("entityconf", flag.ExitOnError)
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to entity config file")
	fs.BoolVar(&opts.Validate, "validate", false, "Also check addresses, ports and protocol")
	fs.BoolVar(&opts.Watch, "watch", false, "Keep watching the file and re-report on change")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.LogFormat, "log-format", "console", "Log format: console or json")
	_ = fs.Parse(args)
	return opts
}
