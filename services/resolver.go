package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"embedgate/config"
	"embedgate/uriutil"
)

const resolveKeyPrefix = "resolve:"

// Resolver finds which base-URI candidate a page's backend actually answers
// on. A page at /foo/bar may belong to an app deployed at /foo/bar or at
// /foo; the resolver probes each candidate's health endpoint in order and
// remembers the winner in Redis so reconnects skip the probing round.
type Resolver struct {
	cfg    *config.Config
	rdb    *redis.Client
	client *http.Client
	dialer *websocket.Dialer
}

func NewResolver(cfg *config.Config, rdb *redis.Client) *Resolver {
	return &Resolver{
		cfg: cfg,
		rdb: rdb,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (r *Resolver) opts() uriutil.Options {
	return uriutil.Options{
		DevMode: r.cfg.DevMode,
		DevPort: r.cfg.DevWSPort,
	}
}

// Candidates enumerates the base URIs to try for a page location,
// most-specific first.
func (r *Resolver) Candidates(loc uriutil.Location) []uriutil.BaseURIParts {
	return uriutil.PossibleBaseURIs(loc, r.opts())
}

// Resolve probes candidates in order and returns the first one whose health
// endpoint answers. The winner is cached per page host+path.
func (r *Resolver) Resolve(ctx context.Context, loc uriutil.Location) (uriutil.BaseURIParts, error) {
	candidates := r.Candidates(loc)
	key := resolveKeyPrefix + loc.Hostname + loc.Pathname

	if base, ok := r.cachedBase(ctx, key, candidates); ok {
		return base, nil
	}

	for _, base := range candidates {
		uri := uriutil.BuildHTTPURI(base, r.cfg.HealthPath, loc.IsHTTPS())
		if r.healthy(ctx, uri) {
			r.cacheBase(ctx, key, base)
			return base, nil
		}
		log.Printf("[Resolver] Health probe failed for %s", uri)
	}

	return uriutil.BaseURIParts{}, fmt.Errorf("no healthy base URI among %d candidates", len(candidates))
}

// DialStream resolves the base URI and opens the WebSocket stream on it,
// carrying a freshly minted stream token.
func (r *Resolver) DialStream(ctx context.Context, loc uriutil.Location, token string) (*websocket.Conn, error) {
	base, err := r.Resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	uri := uriutil.BuildWSURI(base, r.cfg.StreamPath, loc.IsHTTPS()) + "?token=" + token
	conn, resp, err := r.dialer.DialContext(ctx, uri, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial stream %s: %w", uri, err)
	}
	return conn, nil
}

// healthy requires the health endpoint's JSON body, not just a 200: the SPA
// fallback answers 200 with index.html on every unmatched path, including
// the wrong candidate's health URL.
func (r *Resolver) healthy(ctx context.Context, uri string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1024)).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}

// cachedBase returns the cached winner for key, but only if it is still one
// of the current candidates.
func (r *Resolver) cachedBase(ctx context.Context, key string, candidates []uriutil.BaseURIParts) (uriutil.BaseURIParts, bool) {
	if r.rdb == nil {
		return uriutil.BaseURIParts{}, false
	}

	cached, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		return uriutil.BaseURIParts{}, false
	}
	for _, base := range candidates {
		if baseKey(base) == cached {
			return base, true
		}
	}
	return uriutil.BaseURIParts{}, false
}

func (r *Resolver) cacheBase(ctx context.Context, key string, base uriutil.BaseURIParts) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Set(ctx, key, baseKey(base), r.cfg.ResolveCacheTTL).Err(); err != nil {
		log.Printf("[Resolver] Redis Set failed for %s: %v", key, err)
	}
}

func baseKey(base uriutil.BaseURIParts) string {
	return fmt.Sprintf("%s:%d/%s", base.Host, base.Port, base.BasePath)
}
