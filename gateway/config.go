package gateway

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sessiongate/pkg/cookiecodec"
)

var (
	// ErrConfigFile wraps failures reading or parsing the YAML config file.
	ErrConfigFile = errors.New("gateway.config_file")
)

// Config holds the gateway settings. Values come from the environment, with
// an optional YAML file overlay for the parts that do not fit flat env vars
// (the marker table in particular).
type Config struct {
	SupportedLocales   []string       `env:"GATEWAY_LOCALES" envSeparator:"," envDefault:"en,es" yaml:"locales"`
	DefaultLocale      string         `env:"GATEWAY_DEFAULT_LOCALE" envDefault:"en" yaml:"default_locale"`
	BypassPaths        []string       `env:"GATEWAY_BYPASS_PATHS" envSeparator:"," envDefault:"/auth/callback" yaml:"bypass_paths"`
	LocaleExemptPaths  []string       `env:"GATEWAY_LOCALE_EXEMPT_PATHS" envSeparator:"," envDefault:"/auth,/healthz" yaml:"locale_exempt_paths"`
	AuthCookiePrefixes []string       `env:"GATEWAY_AUTH_COOKIE_PREFIXES" envSeparator:"," envDefault:"sb-" yaml:"auth_cookie_prefixes"`
	SecureCookies      bool           `env:"GATEWAY_SECURE_COOKIES" envDefault:"true" yaml:"secure_cookies"`
	RefreshTimeout     time.Duration  `env:"GATEWAY_REFRESH_TIMEOUT" envDefault:"3s" yaml:"refresh_timeout"`
	Markers            []MarkerConfig `env:"-" yaml:"markers"`
}

// MarkerConfig is one corruption-marker entry of the YAML config file.
type MarkerConfig struct {
	Prefix   string `yaml:"prefix"`
	Encoding string `yaml:"encoding"`
}

// ApplyFile overlays settings from a YAML file onto c. Fields absent from
// the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrConfigFile, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Join(ErrConfigFile, err)
	}
	return nil
}

// codecOptions translates the marker table into codec options. An empty
// table keeps the codec defaults.
func (c Config) codecOptions() ([]cookiecodec.Option, error) {
	opts := make([]cookiecodec.Option, 0, len(c.Markers))
	for _, m := range c.Markers {
		enc, err := cookiecodec.ParseEncoding(m.Encoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cookiecodec.WithMarker(m.Prefix, enc))
	}
	return opts, nil
}
