package network

import (
	"math/rand"
	"net/url"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Client wraps a Chrome-profiled TLS client with proxy and user-agent
// rotation. Job boards fingerprint plain Go HTTP clients aggressively,
// hence the tls-client stack rather than net/http.
type Client struct {
	http       tls_client.HttpClient
	rotator    *Rotator
	userAgents []string
	delay      time.Duration
	rand       *rand.Rand
}

// NewClient builds a client from the shared scraper config; rotator may be
// nil when no proxies are configured.
func NewClient(rotator *Rotator, cfg models.ScraperConfig) (*Client, error) {
	jar, _ := fhttpcookiejar.New(nil)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := tls_client.NewHttpClient(
		tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithTimeoutSeconds(int(timeout.Seconds())),
		tls_client.WithCookieJar(jar),
	)
	if err != nil {
		return nil, err
	}

	userAgents := cfg.UserAgents
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}

	return &Client{
		http:       client,
		rotator:    rotator,
		userAgents: append([]string{}, userAgents...),
		delay:      cfg.Delay,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Do sends the request through the current proxy with a random user agent
// and reports the response status back to the rotator.
func (c *Client) Do(req *fhttp.Request) (*fhttp.Response, error) {
	proxy := c.rotateProxy()
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.randomUA())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

// Throttle sleeps the configured inter-request delay. Fixed, not
// exponential: the sites rate-limit on burst, not on volume.
func (c *Client) Throttle() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}

func (c *Client) rotateProxy() *url.URL {
	if c.rotator == nil {
		return nil
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		return nil
	}
	if proxy != nil {
		_ = c.http.SetProxy(proxy.String())
	}
	return proxy
}

func (c *Client) randomUA() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[c.rand.Intn(len(c.userAgents))]
}
