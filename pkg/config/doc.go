// Package config loads process settings from the environment and site
// descriptions from YAML.
//
// # Environment
//
// Load parses environment variables into a struct using caarlos0/env tags.
// A .env file is read on first use and each type is parsed once:
//
//	type Settings struct {
//		Components string `env:"WEBFORGE_COMPONENTS" envDefault:"."`
//		RedisURL   string `env:"REDIS_URL"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil {
//		return err
//	}
//
// # Sites
//
// LoadSite reads a site file describing routes and error pages:
//
//	components: ./site
//	routes:
//	  - {method: GET, path: /, kind: template, target: index.html, data: {title: Home}}
//	  - {kind: dir, target: static, base: /static}
//	  - {method: GET, path: /old, kind: redirect, target: /, status: 301}
//	errors:
//	  NOT_FOUND: {kind: template, target: 404.html}
//
// Route kinds are file, dir, template, text and redirect. Error pages are
// keyed by status code name.
package config
