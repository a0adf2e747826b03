package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Submitter performs the real form submission
type Submitter interface {
	Submit(ctx context.Context, values url.Values) error
}

// SubmitterFunc adapts a function to the Submitter interface
type SubmitterFunc func(ctx context.Context, values url.Values) error

// Submit calls f
func (f SubmitterFunc) Submit(ctx context.Context, values url.Values) error {
	return f(ctx, values)
}

// FormSubmitter posts the whole registration form
type FormSubmitter struct {
	transport Transport
	target    string
	csrfToken string
}

// NewFormSubmitter resolves path against baseURL
func NewFormSubmitter(t Transport, baseURL, path, csrfToken string) (*FormSubmitter, error) {
	target, err := ResolveURL(baseURL, path)
	if err != nil {
		return nil, err
	}
	return &FormSubmitter{transport: t, target: target, csrfToken: csrfToken}, nil
}

// Submit posts values; redirects are followed and only the final status counts
func (s *FormSubmitter) Submit(ctx context.Context, values url.Values) error {
	form := url.Values{}
	for k, v := range values {
		form[k] = append([]string(nil), v...)
	}
	if s.csrfToken != "" {
		form.Set(csrfField, s.csrfToken)
	}

	if _, err := s.transport.SubmitForm(ctx, http.MethodPost, s.target, form.Encode()); err != nil {
		return fmt.Errorf("registration submit failed: %w", err)
	}
	return nil
}
