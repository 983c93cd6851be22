package investec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/scy/auth/authorizer"
	"gopkg.in/yaml.v3"
)

const (
	// SandboxURL is the base URL of the sandbox environment.
	SandboxURL = "https://openapisandbox.investec.com"
	// ProductionURL is the base URL of the production environment.
	ProductionURL = "https://openapi.investec.com"

	defaultRequestTimeout = 30 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
)

// Options defines process options.
type Options struct {
	ClientID        string        `yaml:"clientId,omitempty" json:"clientId,omitempty" short:"i" long:"client-id" env:"CLIENT_ID" description:"oauth2 client id"`
	ClientSecret    string        `yaml:"clientSecret,omitempty" json:"clientSecret,omitempty" short:"s" long:"client-secret" env:"CLIENT_SECRET" description:"oauth2 client secret"`
	APIKey          string        `yaml:"apiKey,omitempty" json:"apiKey,omitempty" short:"k" long:"api-key" env:"API_KEY" description:"api subscription key"`
	UseSandbox      string        `yaml:"sandbox,omitempty" json:"sandbox,omitempty" long:"sandbox" env:"USE_SANDBOX" description:"true selects the sandbox environment"`
	BaseURL         string        `yaml:"baseURL,omitempty" json:"baseURL,omitempty" short:"u" long:"base-url" env:"INVESTEC_BASE_URL" description:"api base url, overrides sandbox selection"`
	ConfigURL       string        `yaml:"-" json:"-" short:"c" long:"config" env:"INVESTEC_CONFIG" description:"yaml options file url"`
	OAuth2ConfigURL string        `yaml:"oauth2ConfigURL,omitempty" json:"oauth2ConfigURL,omitempty" long:"oauth2-config" env:"INVESTEC_OAUTH2_CONFIG" description:"oauth2 client config url supplying client id and secret"`
	EncryptionKey   string        `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty" long:"key" env:"INVESTEC_ENCRYPTION_KEY" description:"oauth2 client config encryption key"`
	RequestTimeout  time.Duration `yaml:"requestTimeout,omitempty" json:"requestTimeout,omitempty" long:"timeout" env:"INVESTEC_TIMEOUT" description:"api request timeout"`
	LogLevel        string        `yaml:"logLevel,omitempty" json:"logLevel,omitempty" short:"l" long:"log-level" env:"LOG_LEVEL" description:"log level"`
	TraceEndpoint   string        `yaml:"traceEndpoint,omitempty" json:"traceEndpoint,omitempty" long:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" description:"OTLP/HTTP collector endpoint, tracing is off when empty"`
	LogFormat       string        `yaml:"logFormat,omitempty" json:"logFormat,omitempty" long:"log-format" env:"LOG_FORMAT" description:"log format" choice:"text" choice:"json"`
}

// Sandbox reports whether the sandbox environment is selected
func (o *Options) Sandbox() bool {
	return o.UseSandbox == "true"
}

// Load merges the YAML options file and the oauth2 client config into o, then applies defaults.
// Values already set on o take precedence.
func (o *Options) Load(ctx context.Context) error {
	if o.ConfigURL != "" {
		fs := afs.New()
		data, err := fs.DownloadWithURL(ctx, o.ConfigURL)
		if err != nil {
			return fmt.Errorf("failed to load options %v: %w", o.ConfigURL, err)
		}
		file := &Options{}
		if err := yaml.Unmarshal(data, file); err != nil {
			return fmt.Errorf("failed to decode options %v: %w", o.ConfigURL, err)
		}
		o.merge(file)
	}
	if o.OAuth2ConfigURL != "" {
		if err := o.loadOAuth2Config(ctx); err != nil {
			return err
		}
	}
	o.Init()
	return nil
}

func (o *Options) loadOAuth2Config(ctx context.Context) error {
	configURL := o.OAuth2ConfigURL
	if o.EncryptionKey != "" {
		configURL += "|" + o.EncryptionKey
	}
	oauthCfg := &authorizer.OAuthConfig{ConfigURL: configURL}
	if err := authorizer.New().EnsureConfig(ctx, oauthCfg); err != nil {
		return fmt.Errorf("failed to load oauth2 config %q: %w", o.OAuth2ConfigURL, err)
	}
	if oauthCfg.Config == nil {
		return fmt.Errorf("oauth2 config %q was empty", o.OAuth2ConfigURL)
	}
	if o.ClientID == "" {
		o.ClientID = oauthCfg.Config.ClientID
	}
	if o.ClientSecret == "" {
		o.ClientSecret = oauthCfg.Config.ClientSecret
	}
	return nil
}

func (o *Options) merge(file *Options) {
	setIfEmpty(&o.ClientID, file.ClientID)
	setIfEmpty(&o.ClientSecret, file.ClientSecret)
	setIfEmpty(&o.APIKey, file.APIKey)
	setIfEmpty(&o.UseSandbox, file.UseSandbox)
	setIfEmpty(&o.BaseURL, file.BaseURL)
	setIfEmpty(&o.OAuth2ConfigURL, file.OAuth2ConfigURL)
	setIfEmpty(&o.EncryptionKey, file.EncryptionKey)
	setIfEmpty(&o.LogLevel, file.LogLevel)
	setIfEmpty(&o.LogFormat, file.LogFormat)
	setIfEmpty(&o.TraceEndpoint, file.TraceEndpoint)
	if o.RequestTimeout == 0 {
		o.RequestTimeout = file.RequestTimeout
	}
}

func setIfEmpty(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

// Init sets default values
func (o *Options) Init() {
	if o.BaseURL == "" {
		o.BaseURL = ProductionURL
		if o.Sandbox() {
			o.BaseURL = SandboxURL
		}
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = defaultRequestTimeout
	}
	if o.LogLevel == "" {
		o.LogLevel = defaultLogLevel
	}
	if o.LogFormat == "" {
		o.LogFormat = defaultLogFormat
	}
}

// Validate checks that the client credentials are present
func (o *Options) Validate() error {
	var errs []error
	if o.ClientID == "" {
		errs = append(errs, errors.New("client id was empty"))
	}
	if o.ClientSecret == "" {
		errs = append(errs, errors.New("client secret was empty"))
	}
	if o.APIKey == "" {
		errs = append(errs, errors.New("api key was empty"))
	}
	return errors.Join(errs...)
}

// mask keeps the first and last three characters of a secret
func mask(secret string) string {
	if len(secret) <= 6 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:3] + strings.Repeat("*", len(secret)-6) + secret[len(secret)-3:]
}
