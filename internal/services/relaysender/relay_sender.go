package relaysender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/rs/zerolog"
)

const (
	// RelayFailureCode is the code returned when the relay target could not be reached
	RelayFailureCode = -1

	userAgent = "LINE-Webhook-Relay/1.0"
)

// CookieJar supplies and receives the cookies of a relay target.
type CookieJar interface {
	Cookies(u *url.URL) []*http.Cookie
	SetCookie(u *url.URL, cookie *http.Cookie) error
}

// Response is what the relay target answered.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// RelaySender posts relayed messages to user configured URLs.
type RelaySender struct {
	client *http.Client
}

// NewRelaySender creates a new RelaySender. The default client has no
// timeout; the request context bounds the call.
func NewRelaySender(client *http.Client) *RelaySender {
	if client == nil {
		client = &http.Client{}
	}
	return &RelaySender{
		client: client,
	}
}

// Send posts form to targetURL as a URL-encoded body with the jar's cookies
// attached, and merges Set-Cookie headers of the response back into the jar.
// Every HTTP status counts as a delivered relay: targets report failures in
// the body, which is shown to the user as is.
func (s *RelaySender) Send(ctx context.Context, targetURL string, form url.Values, jar CookieJar) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(form.Encode()))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, richerrors.Error{
				Code: RelayFailureCode,
				Err:  fmt.Errorf("invalid URL: %w", err),
			}
		}
		return nil, fmt.Errorf("failed to create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	if jar != nil {
		for _, cookie := range jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, richerrors.Error{
			Code: RelayFailureCode,
			Err:  fmt.Errorf("failed to POST to relay target: %w", err),
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if jar != nil {
		storeCookies(ctx, jar, req.URL, resp.Header.Values("Set-Cookie"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, richerrors.Error{
			Code: RelayFailureCode,
			Err:  fmt.Errorf("failed to read relay response: %w", err),
		}
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// storeCookies merges Set-Cookie values into the jar. Bad cookies are logged and skipped.
func storeCookies(ctx context.Context, jar CookieJar, u *url.URL, values []string) {
	logger := zerolog.Ctx(ctx)
	for _, value := range values {
		cookie, err := http.ParseSetCookie(value)
		if err != nil {
			logger.Warn().Err(err).Str("target_url", u.Redacted()).Msg("Ignoring unparsable Set-Cookie header")
			continue
		}
		if err := jar.SetCookie(u, cookie); err != nil {
			logger.Warn().Err(err).Str("cookie", cookie.Name).Str("target_url", u.Redacted()).Msg("Ignoring cookie")
		}
	}
}
