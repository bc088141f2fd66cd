// Package config loads the server configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/foomo/contentserver-richtext/contentful"
	"github.com/foomo/contentserver-richtext/service"
	"github.com/goccy/go-yaml"
)

const (
	SourceContentful    = "contentful"
	SourceContentServer = "contentserver"

	DefaultHTTPAddr     = ":8080"
	DefaultHTTPEndpoint = "/mcp"

	maxFileSize = 1 << 20
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalid        = errors.New("invalid config")
)

type Config struct {
	// Source selects the content source, empty disables the page tools.
	Source        string            `yaml:"source"`
	BaseURL       string            `yaml:"baseUrl"`
	Sections      map[string]string `yaml:"sections"`
	Contentful    contentful.Config `yaml:"contentful"`
	ContentServer ContentServer     `yaml:"contentServer"`
	HTTP          HTTP              `yaml:"http"`
	Renderer      Renderer          `yaml:"renderer"`
}

type ContentServer struct {
	URL       string `yaml:"url"`
	RootID    string `yaml:"rootId"`
	Dimension string `yaml:"dimension"`
}

type HTTP struct {
	Addr     string `yaml:"addr"`
	Endpoint string `yaml:"endpoint"`
}

type Renderer struct {
	Plain    bool `yaml:"plain"`    // Emit no class attributes
	MaxDepth int  `yaml:"maxDepth"` // Nesting limit of the generic fallback
}

func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Addr:     DefaultHTTPAddr,
			Endpoint: DefaultHTTPEndpoint,
		},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path yields the defaults plus the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = service.DefaultSections()
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse decodes YAML into cfg. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	if len(data) > maxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), maxFileSize)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return nil
}

// ApplyEnv overrides the credentials and endpoints from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("CONTENTFUL_SPACE_ID", &c.Contentful.SpaceID)
	set("CONTENTFUL_ACCESS_TOKEN", &c.Contentful.AccessToken)
	set("CONTENTFUL_ENVIRONMENT", &c.Contentful.Environment)
	set("CONTENTSERVER_URL", &c.ContentServer.URL)
}

// Validate reports the first problem that would keep the server from starting.
func (c *Config) Validate() error {
	switch c.Source {
	case "":
	case SourceContentful:
		var missing []string
		if c.Contentful.SpaceID == "" {
			missing = append(missing, "CONTENTFUL_SPACE_ID")
		}
		if c.Contentful.AccessToken == "" {
			missing = append(missing, "CONTENTFUL_ACCESS_TOKEN")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, " and "))
		}
	case SourceContentServer:
		if c.ContentServer.URL == "" {
			return fmt.Errorf("%w: missing contentServer.url", ErrInvalid)
		}
		if c.ContentServer.RootID == "" {
			return fmt.Errorf("%w: missing contentServer.rootId", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}
	if c.HTTP.Endpoint == "" || !strings.HasPrefix(c.HTTP.Endpoint, "/") {
		return fmt.Errorf("%w: http.endpoint must start with /", ErrInvalid)
	}
	for section, contentType := range c.Sections {
		if section == "" || contentType == "" || strings.Contains(section, "/") {
			return fmt.Errorf("%w: section %q", ErrInvalid, section)
		}
	}
	return nil
}
