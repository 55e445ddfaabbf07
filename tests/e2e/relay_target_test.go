package e2e_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// RelayTarget is a TLS server that records relayed messages. It keeps a
// visit counter in a session cookie and echoes the text it received.
type RelayTarget struct {
	server   *httptest.Server
	received []RelayCall
	mu       sync.RWMutex
}

type RelayCall struct {
	Form   url.Values
	Cookie string
	Time   time.Time
}

func NewRelayTarget() *RelayTarget {
	rt := &RelayTarget{
		received: make([]RelayCall, 0),
	}

	rt.server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		rt.mu.Lock()
		rt.received = append(rt.received, RelayCall{
			Form:   r.PostForm,
			Cookie: r.Header.Get("Cookie"),
			Time:   time.Now(),
		})
		rt.mu.Unlock()

		visits := 0
		if cookie, err := r.Cookie("visits"); err == nil {
			visits, _ = strconv.Atoi(cookie.Value)
		}
		visits++
		http.SetCookie(w, &http.Cookie{Name: "visits", Value: strconv.Itoa(visits), Path: "/"})

		if r.PostForm.Get("type") == "sticker" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"type":"sticker","packageId":"446","stickerId":"1988"}]`))
			return
		}
		_, _ = fmt.Fprintf(w, "visit %d: %s", visits, r.PostForm.Get("text"))
	}))
	return rt
}

func (rt *RelayTarget) URL() string {
	return rt.server.URL + "/relay"
}

func (rt *RelayTarget) GetReceivedCalls() []RelayCall {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	result := make([]RelayCall, len(rt.received))
	copy(result, rt.received)
	return result
}

func (rt *RelayTarget) Close() {
	rt.server.Close()
}
