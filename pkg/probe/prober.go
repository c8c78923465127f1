package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/httputil"
)

const (
	// DefaultTimeout bounds each individual probe request.
	DefaultTimeout = 10 * time.Second

	// DefaultCacheTTL is how long cross-run probe results stay valid.
	DefaultCacheTTL = 24 * time.Hour

	// hostCacheSize bounds the per-run host result cache. One aggregation
	// run rarely touches more than a handful of hosts.
	hostCacheSize = 512
)

// userAgent identifies probe requests to remote services.
const userAgent = "metaforge/1.0 (+https://github.com/matzehuels/metaforge)"

// Options is the immutable configuration carried through the whole
// canonicalization call graph: network access, per-call timeout, and an
// optional cross-run cache backend.
type Options struct {
	NetAccess NetAccess
	Timeout   time.Duration // per-request timeout (default 10s)
	CacheTTL  time.Duration // cross-run cache TTL (default 24h)
	Cache     cache.Cache   // cross-run cache backend (default none)
}

// WithDefaults returns a copy of Options with zero values replaced.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	return opts
}

// Prober issues the blocking HTTP probes behind forge matching and URL
// canonicalization. Probe results are cached per hostname for the prober's
// lifetime; create one prober per aggregation run.
//
// A Prober is safe for concurrent use. Probes for the same hostname are
// serialized so that the first result wins and later callers observe it
// from the cache.
type Prober struct {
	opts   Options
	http   *http.Client
	hosts  *lru.Cache[string, bool]
	scheme string // "https" outside of tests

	mu     sync.Mutex
	inHost map[string]*sync.Mutex
}

// New creates a Prober with the given options.
func New(opts Options) *Prober {
	opts = opts.WithDefaults()
	hosts, _ := lru.New[string, bool](hostCacheSize)
	return &Prober{
		opts:   opts,
		http:   &http.Client{Timeout: opts.Timeout},
		hosts:  hosts,
		scheme: "https",
		inHost: make(map[string]*sync.Mutex),
	}
}

// Offline returns a prober that never issues network requests.
func Offline() *Prober {
	return New(Options{NetAccess: NetDisabled})
}

// Options returns the prober's immutable configuration.
func (p *Prober) Options() Options { return p.opts }

// NetAccess returns the prober's network access level.
func (p *Prober) NetAccess() NetAccess { return p.opts.NetAccess }

// hostLock returns the mutex serializing probes for host.
func (p *Prober) hostLock(host string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.inHost[host]
	if !ok {
		m = &sync.Mutex{}
		p.inHost[host] = m
	}
	return m
}

// GitLabHost probes host for the GitLab API signature: GET
// /api/v4/version answers 401 with {"message": "401 Unauthorized"} on an
// unauthenticated GitLab instance. The boolean result is cached per
// hostname for the prober's lifetime, and in the cross-run cache backend
// when one is configured.
//
// With network access not enabled the result is always false: the registry
// fails closed rather than guessing.
func (p *Prober) GitLabHost(ctx context.Context, host string) bool {
	if !p.opts.NetAccess.Allowed() {
		return false
	}
	if err := errors.ValidateHostname(host); err != nil {
		return false
	}

	lock := p.hostLock(host)
	lock.Lock()
	defer lock.Unlock()

	if v, ok := p.hosts.Get(host); ok {
		return v
	}

	key := cache.Key("probe:gitlab", host)
	if data, ok, _ := p.opts.Cache.Get(ctx, key); ok {
		v, err := strconv.ParseBool(string(data))
		if err == nil {
			p.hosts.Add(host, v)
			return v
		}
	}

	v := p.probeGitLab(ctx, host)
	p.hosts.Add(host, v)
	_ = p.opts.Cache.Set(ctx, key, []byte(strconv.FormatBool(v)), p.opts.CacheTTL)
	return v
}

func (p *Prober) probeGitLab(ctx context.Context, host string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.scheme+"://"+host+"/api/v4/version", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		// Probably not a GitLab host, or not reachable at all.
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return false
	}
	return body.Message == "401 Unauthorized"
}

// ResolveRedirects follows HTTP redirects from rawURL and returns the final
// location. It is best-effort enrichment: with network access not enabled,
// or on any network failure or timeout, it returns rawURL unchanged and a
// nil error. Only http(s) URLs are resolved.
func (p *Prober) ResolveRedirects(ctx context.Context, rawURL string) string {
	if !p.opts.NetAccess.Allowed() {
		return rawURL
	}
	if !hasHTTPScheme(rawURL) {
		return rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		return rawURL
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return rawURL
	}
	return resp.Request.URL.String()
}

// CheckURL actively verifies that rawURL is reachable and returns its final
// location after redirects. Unlike [Prober.ResolveRedirects], failure is
// meaningful to the caller:
//
//   - network access not enabled: NETWORK_DISABLED
//   - non-http(s) scheme: UNVERIFIABLE
//   - 404: VERIFICATION_FAILED
//   - 429: RATE_LIMITED
//   - 5xx, connection failure: UNVERIFIABLE
//   - timeout: TIMEOUT
func (p *Prober) CheckURL(ctx context.Context, rawURL string) (string, error) {
	if !p.opts.NetAccess.Allowed() {
		return rawURL, errors.New(errors.ErrCodeNetDisabled, "network access is not enabled")
	}
	if !hasHTTPScheme(rawURL) {
		return rawURL, errors.New(errors.ErrCodeUnverifiable, "unsupported scheme in %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL, errors.Wrap(errors.ErrCodeInvalidURL, err, "cannot request %q", rawURL)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		if httputil.IsTimeout(err) {
			return rawURL, errors.Wrap(errors.ErrCodeTimeout, err, "probe timed out for %s", rawURL)
		}
		return rawURL, errors.Wrap(errors.ErrCodeUnverifiable, err, "cannot reach %s", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Request.URL.String(), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return rawURL, errors.New(errors.ErrCodeRateLimited, "rate limited checking %s", rawURL)
	case resp.StatusCode == http.StatusNotFound:
		return rawURL, errors.New(errors.ErrCodeVerificationFailed, "not found: %s", rawURL)
	case resp.StatusCode >= 500:
		return rawURL, errors.New(errors.ErrCodeUnverifiable, "server error %d for %s", resp.StatusCode, rawURL)
	default:
		return rawURL, errors.New(errors.ErrCodeUnverifiable, "unexpected status %d for %s", resp.StatusCode, rawURL)
	}
}

func hasHTTPScheme(rawURL string) bool {
	return len(rawURL) > 7 && (rawURL[:7] == "http://" || (len(rawURL) > 8 && rawURL[:8] == "https://"))
}
