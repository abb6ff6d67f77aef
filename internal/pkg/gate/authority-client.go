// Package gate contains the authentication gate and the client of the
// external authority validating bearer credentials.
package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/gate"
)

// authorizationRequest is the payload sent to the authority's validation
// endpoint. It carries the path component of the inbound request, excluding
// any query string.
type authorizationRequest struct {
	ResourceURI string `json:"resourceUri"`
}

// apiResponse is the authority's JSON envelope. Response is null whenever the
// authority grants no identity for the presented credential.
type apiResponse struct {
	StatusCode int            `json:"statusCode"`
	Message    string         `json:"message"`
	Response   *gate.Identity `json:"response"`
}

type httpAuthorityClient struct {
	appConf    *configs.AppConfig
	baseURL    *url.URL
	client     *http.Client
	configured bool
}

// NewHTTPAuthorityClient returns a new gate.AuthorityClient speaking the
// authority's HTTP wire contract.
func NewHTTPAuthorityClient() gate.AuthorityClient {
	return &httpAuthorityClient{
		appConf:    nil,
		baseURL:    nil,
		client:     nil,
		configured: false,
	}
}

// See Configure() of gate.AuthorityClient
func (c *httpAuthorityClient) Configure(appConf *configs.AppConfig) error {
	// Exit if already configured
	if c.configured {
		return nil
	}

	conf := appConf.Gateway.Authority
	baseURL, err := url.Parse(strings.TrimSuffix(conf.BaseURL, "/"))
	if err != nil {
		return errors.Wrapf(err, "AuthorityClient: Unable to parse base-url %q", conf.BaseURL)
	}

	c.appConf = appConf
	c.baseURL = baseURL
	// The client timeout bounds the authority call: an unresponsive
	// authority fails the request instead of stalling it indefinitely.
	c.client = &http.Client{Timeout: conf.Timeout}
	c.configured = true
	logging.LogForComponent("AuthorityClient").Infof("Configured AuthorityClient for authority at [%s]", baseURL)
	return nil
}

// Validate implements gate.AuthorityClient.
//
// The bearer token is forwarded as credential and never inspected locally.
// (nil, nil) is returned iff the authority answered successfully with a null
// identity payload.
func (c *httpAuthorityClient) Validate(ctx context.Context, token string, resourceURI string) (*gate.Identity, error) {
	if !c.configured {
		return nil, errors.Errorf("AuthorityClient was not configured! Please call Configure(). ")
	}

	payload, err := json.Marshal(authorizationRequest{ResourceURI: resourceURI})
	if err != nil {
		return nil, errors.Wrap(err, "AuthorityClient: Unable to marshal authorization request")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String()+constants.EndpointResourceValidate, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "AuthorityClient: Unable to build authority request")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)

	response, err := c.client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "AuthorityClient: Error while calling authority")
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.LogForComponent("AuthorityClient").Warnf("Unable to close response body: %s", err.Error())
		}
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("AuthorityClient: Authority responded with status %d", response.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, "AuthorityClient: Unable to parse authority response")
	}
	return envelope.Response, nil
}
