// Package cookiejar keeps one persisted cookie jar per user so relay
// targets can hold a session across messages.
package cookiejar

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

var (
	errDomainMismatch = errors.New("cookie domain does not match request host")
	errPublicSuffix   = errors.New("cookie domain is a public suffix")
)

// Entry is a stored cookie.
type Entry struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	HostOnly bool      `json:"hostOnly,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Created  time.Time `json:"created"`
}

func (e *Entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && !e.Expires.After(now)
}

func (e *Entry) domainMatch(host string) bool {
	if e.HostOnly {
		return host == e.Domain
	}
	return host == e.Domain || strings.HasSuffix(host, "."+e.Domain)
}

func (e *Entry) pathMatch(requestPath string) bool {
	if requestPath == e.Path {
		return true
	}
	if !strings.HasPrefix(requestPath, e.Path) {
		return false
	}
	return strings.HasSuffix(e.Path, "/") || requestPath[len(e.Path)] == '/'
}

// Jar is the cookie jar of one user. It implements http.CookieJar.
type Jar struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewJar returns a jar holding entries.
func NewJar(entries []Entry) *Jar {
	return &Jar{entries: entries, now: time.Now}
}

// Cookies returns the cookies to send in a request to u, longest path first.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	host := canonicalHost(u)
	requestPath := u.EscapedPath()
	if requestPath == "" {
		requestPath = "/"
	}
	https := u.Scheme == "https"

	var matched []Entry
	kept := j.entries[:0]
	for _, entry := range j.entries {
		if entry.expired(now) {
			continue
		}
		kept = append(kept, entry)
		if entry.Secure && !https {
			continue
		}
		if entry.domainMatch(host) && entry.pathMatch(requestPath) {
			matched = append(matched, entry)
		}
	}
	j.entries = kept

	slices.SortStableFunc(matched, func(a, b Entry) int {
		if len(a.Path) != len(b.Path) {
			return len(b.Path) - len(a.Path)
		}
		return a.Created.Compare(b.Created)
	})
	cookies := make([]*http.Cookie, 0, len(matched))
	for _, entry := range matched {
		cookies = append(cookies, &http.Cookie{Name: entry.Name, Value: entry.Value})
	}
	return cookies
}

// SetCookies implements http.CookieJar. Cookies that cannot be stored are dropped.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		_ = j.SetCookie(u, cookie)
	}
}

// SetCookie merges a cookie received from u. A cookie with the same name,
// domain and path is replaced; an already expired cookie removes it.
func (j *Jar) SetCookie(u *url.URL, cookie *http.Cookie) error {
	host := canonicalHost(u)
	entry := Entry{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Domain:   host,
		HostOnly: true,
		Path:     cookie.Path,
		Secure:   cookie.Secure,
		HTTPOnly: cookie.HttpOnly,
	}
	if cookie.Domain != "" {
		domain := strings.ToLower(strings.TrimPrefix(cookie.Domain, "."))
		if host != domain && !strings.HasSuffix(host, "."+domain) {
			return fmt.Errorf("%w: %q for %q", errDomainMismatch, cookie.Domain, host)
		}
		switch {
		case isPublicSuffix(domain) && host != domain:
			return fmt.Errorf("%w: %q for %q", errPublicSuffix, cookie.Domain, host)
		case isPublicSuffix(domain):
			// A host that is itself a public suffix may only set host-only cookies.
		default:
			entry.Domain = domain
			entry.HostOnly = false
		}
	}
	if entry.Path == "" || entry.Path[0] != '/' {
		entry.Path = defaultPath(u.EscapedPath())
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	remove := false
	switch {
	case cookie.MaxAge < 0:
		remove = true
	case cookie.MaxAge > 0:
		entry.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
	case !cookie.Expires.IsZero():
		entry.Expires = cookie.Expires
		remove = !cookie.Expires.After(now)
	}

	for i, existing := range j.entries {
		if existing.Name != entry.Name || existing.Domain != entry.Domain || existing.Path != entry.Path {
			continue
		}
		if remove {
			j.entries = slices.Delete(j.entries, i, i+1)
			return nil
		}
		entry.Created = existing.Created
		j.entries[i] = entry
		return nil
	}
	if remove {
		return nil
	}
	entry.Created = now
	j.entries = append(j.entries, entry)
	return nil
}

// Entries returns a copy of the unexpired cookies for persistence.
func (j *Jar) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	entries := make([]Entry, 0, len(j.entries))
	for _, entry := range j.entries {
		if !entry.expired(now) {
			entries = append(entries, entry)
		}
	}
	return entries
}

func isPublicSuffix(domain string) bool {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix == domain
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

// defaultPath is the directory of the request path, per RFC 6265 section 5.1.4.
func defaultPath(requestPath string) string {
	if requestPath == "" || requestPath[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(requestPath, "/")
	if i == 0 {
		return "/"
	}
	return requestPath[:i]
}
