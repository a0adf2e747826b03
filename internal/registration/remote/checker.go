package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Checker confirms or rejects a locally valid value.
// On any failure the verdict is VerdictUnconfirmed and err explains why.
type Checker interface {
	Check(ctx context.Context, endpoint Endpoint, payload string) (Verdict, error)
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc func(ctx context.Context, endpoint Endpoint, payload string) (Verdict, error)

// Check calls f
func (f CheckerFunc) Check(ctx context.Context, endpoint Endpoint, payload string) (Verdict, error) {
	return f(ctx, endpoint, payload)
}

// Route locates one endpoint: the path relative to the base URL and the form
// parameter carrying the value
type Route struct {
	Path  string
	Param string
}

// DefaultRoutes returns the routes of the JoyJoin register app
func DefaultRoutes() map[Endpoint]Route {
	return map[Endpoint]Route{
		EndpointLoginAvailable:    {Path: "register/is_login_unused/", Param: "login"},
		EndpointPasswordNotCommon: {Path: "register/is_password_uncommon/", Param: "password"},
		EndpointAgeEligible:       {Path: "register/is_age_ok/", Param: "date"},
	}
}

// csrfField is the form field Django reads the CSRF token from
const csrfField = "csrfmiddlewaretoken"

// FormChecker posts each check as a one-field form
type FormChecker struct {
	transport Transport
	targets   map[Endpoint]string
	params    map[Endpoint]string
	csrfToken string
	log       *zap.Logger
}

// NewFormChecker resolves routes against baseURL
func NewFormChecker(t Transport, baseURL string, routes map[Endpoint]Route, csrfToken string, log *zap.Logger) (*FormChecker, error) {
	if log == nil {
		log = zap.NewNop()
	}

	targets := make(map[Endpoint]string, len(routes))
	params := make(map[Endpoint]string, len(routes))
	for ep, r := range routes {
		target, err := ResolveURL(baseURL, r.Path)
		if err != nil {
			return nil, err
		}
		targets[ep] = target
		params[ep] = r.Param
	}

	return &FormChecker{
		transport: t,
		targets:   targets,
		params:    params,
		csrfToken: csrfToken,
		log:       log,
	}, nil
}

// Check posts payload to the endpoint and decodes the verdict
func (c *FormChecker) Check(ctx context.Context, endpoint Endpoint, payload string) (Verdict, error) {
	target, ok := c.targets[endpoint]
	if !ok {
		return VerdictUnconfirmed, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}

	form := url.Values{}
	form.Set(c.params[endpoint], payload)
	if c.csrfToken != "" {
		form.Set(csrfField, c.csrfToken)
	}

	body, err := c.transport.SubmitForm(ctx, http.MethodPost, target, form.Encode())
	if err != nil {
		c.log.Warn("remote check failed", zap.String("endpoint", string(endpoint)), zap.Error(err))
		return VerdictUnconfirmed, err
	}

	verdict, err := DecodeVerdict(body)
	if err != nil {
		c.log.Warn("remote check answered garbage", zap.String("endpoint", string(endpoint)), zap.Error(err))
		return VerdictUnconfirmed, err
	}

	return verdict, nil
}

// ResolveURL joins a relative path onto baseURL, treating baseURL as a directory
func ResolveURL(baseURL, path string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	return base.ResolveReference(rel).String(), nil
}
