package main

import (
	"flag"
	"strings"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// siteFlags are shared by the cgi and serve commands.
type siteFlags struct {
	sites   stringList
	logfile string
	minify  bool
}

func (f *siteFlags) register(fs *flag.FlagSet, cfg Config) {
	fs.Var(&f.sites, "site", "site file (repeatable; defaults to WEBFORGE_SITES)")
	fs.StringVar(&f.logfile, "logfile", cfg.Log.File, "append logs to this file instead of stderr")
	fs.BoolVar(&f.minify, "minify", cfg.Minify, "minify HTML, CSS, JavaScript and XML responses")
}

func (f *siteFlags) sitePaths(cfg Config) []string {
	if len(f.sites) > 0 {
		return f.sites
	}
	return cfg.Sites
}
