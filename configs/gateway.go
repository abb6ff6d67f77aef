package configs

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// GatewayConfig holds all gateway related settings: which datastore backs the
// route table, how often it is refreshed and how inbound requests are
// authenticated before they are forwarded.
type GatewayConfig struct {
	RouteStore      string           `yaml:"route-store"`
	RefreshInterval time.Duration    `yaml:"refresh-interval"`
	Authority       *AuthorityConfig `yaml:"authority"`
	IdentityHeaders *IdentityHeaders `yaml:"identity-headers"`
}

// AuthorityConfig holds the connection settings of the external authority
// which validates bearer credentials.
type AuthorityConfig struct {
	BaseURL string        `yaml:"base-url"`
	Timeout time.Duration `yaml:"timeout"`
}

// IdentityHeaders maps identity claims to the header names under which they
// are forwarded to upstream services. The names are deployment specific and
// therefore never hard-coded.
type IdentityHeaders struct {
	UserID      string `yaml:"user-id"`
	Username    string `yaml:"username"`
	ServiceID   string `yaml:"service-id"`
	AccountType string `yaml:"account-type"`
}

// DefaultRefreshInterval is applied if no refresh-interval is configured.
const DefaultRefreshInterval = 60 * time.Second

// DefaultAuthorityTimeout bounds the authority call if no timeout is configured.
const DefaultAuthorityTimeout = 5 * time.Second

func (c *GatewayConfig) validate(data *DatastoreConfig) error {
	if c.RouteStore == "" {
		return errors.Errorf("No route-store configured!")
	}
	if _, ok := data.Datastores[c.RouteStore]; !ok {
		return errors.Errorf("Configured route-store [%s] matches no datastore alias", c.RouteStore)
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}

	if c.Authority == nil {
		return errors.Errorf("No authority configured!")
	}
	parsed, err := url.Parse(c.Authority.BaseURL)
	if err != nil || !parsed.IsAbs() {
		return errors.Errorf("Authority base-url %q is not an absolute url", c.Authority.BaseURL)
	}
	if c.Authority.Timeout <= 0 {
		c.Authority.Timeout = DefaultAuthorityTimeout
	}

	if c.IdentityHeaders == nil {
		return errors.Errorf("No identity-headers configured!")
	}
	headers := []string{
		c.IdentityHeaders.UserID,
		c.IdentityHeaders.Username,
		c.IdentityHeaders.ServiceID,
		c.IdentityHeaders.AccountType,
	}
	seen := make(map[string]struct{})
	for _, h := range headers {
		if h == "" {
			return errors.Errorf("Empty header name in identity-headers")
		}
		if _, ok := seen[h]; ok {
			return errors.Errorf("Duplicate header name %q in identity-headers", h)
		}
		seen[h] = struct{}{}
	}
	return nil
}
