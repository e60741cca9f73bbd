package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route kinds understood by the application.
const (
	KindFile     = "file"     // a single static file
	KindDir      = "dir"      // a static directory under a URL base
	KindTemplate = "template" // a rendered component
	KindText     = "text"     // a literal body
	KindRedirect = "redirect" // a Location redirect
)

// Site describes the routes of one site. Paths in it are relative to the
// directory holding the site file.
type Site struct {
	Errors     map[string]SiteRoute `yaml:"errors"`
	Host       string               `yaml:"host"`
	Components string               `yaml:"components"`
	Routes     []SiteRoute          `yaml:"routes"`
}

// SiteRoute is one route, or one error page when listed under errors.
type SiteRoute struct {
	Data        map[string]any `yaml:"data"`
	Method      string         `yaml:"method"`
	Host        string         `yaml:"host"`
	Path        string         `yaml:"path"`
	Kind        string         `yaml:"kind"`
	Target      string         `yaml:"target"`
	Base        string         `yaml:"base"`
	Body        string         `yaml:"body"`
	ContentType string         `yaml:"content_type"`
	Status      int            `yaml:"status"`
}

// LoadSite reads and validates the site file at path. The component
// directory is resolved against the file's directory and defaults to it.
func LoadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read site file: %w", err)
	}

	site, err := ParseSite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	switch {
	case site.Components == "":
		site.Components = dir
	case !filepath.IsAbs(site.Components):
		site.Components = filepath.Join(dir, site.Components)
	}
	return site, nil
}

// ParseSite decodes and validates a site document. Unknown fields are
// rejected.
func ParseSite(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site Site
	if err := dec.Decode(&site); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSite, err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks that every route names a known kind with the fields that
// kind requires.
func (s *Site) Validate() error {
	var errs []error
	for i, r := range s.Routes {
		if err := r.validate(); err != nil {
			errs = append(errs, fmt.Errorf("route %d (%s): %w", i, r.Path, err))
		}
	}
	for name, r := range s.Errors {
		if r.Kind == KindDir {
			errs = append(errs, fmt.Errorf("error page %s: kind %q cannot handle errors", name, r.Kind))
			continue
		}
		if err := r.validate(); err != nil {
			errs = append(errs, fmt.Errorf("error page %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSite, errors.Join(errs...))
	}
	return nil
}

func (r SiteRoute) validate() error {
	switch r.Kind {
	case KindFile, KindTemplate, KindRedirect:
		if r.Target == "" {
			return fmt.Errorf("kind %q requires a target", r.Kind)
		}
	case KindDir:
		if r.Target == "" || r.Base == "" {
			return errors.New(`kind "dir" requires a target and a base`)
		}
		if !strings.HasPrefix(r.Base, "/") {
			return fmt.Errorf("base %q must start with /", r.Base)
		}
	case KindText:
	case "":
		return errors.New("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	if r.Status != 0 && (r.Status < 100 || r.Status > 599) {
		return fmt.Errorf("invalid status %d", r.Status)
	}
	return nil
}
