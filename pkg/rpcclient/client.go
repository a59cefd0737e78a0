package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/soroban-go/pkg/core/transaction"
	"github.com/nspcc-dev/soroban-go/pkg/sorobanrpc"
	"github.com/nspcc-dev/soroban-go/pkg/util"
	"go.uber.org/atomic"
	"go.uber.org/ratelimit"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
	defaultInitTimeout    = 30 * time.Second
	defaultCacheSize      = 128
)

var errNetworkNotInitialized = errors.New("RPC client network is not initialized")

// Client represents the middleman for executing JSON RPC calls
// to remote Soroban RPC nodes. Client is thread-safe and can be used from
// multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	opts     Options
	requestF func(context.Context, *sorobanrpc.Request) (*sorobanrpc.Response, error)
	limiter  ratelimit.Limiter

	cacheLock sync.RWMutex
	// cache stores RPC node related information the client is bound to,
	// it's filled in during Init().
	cache cache
	// instances caches contract instances by contract address strkey.
	instances *lru.Cache

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client.
// All values are optional. If any duration is not specified,
// a default of 4 seconds will be used.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// InitTimeout bounds the time Init waits for the node to become
	// healthy, 30 seconds by default.
	InitTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	// RequestsPerSecond limits the request rate when positive.
	RequestsPerSecond int
	// FriendbotURL is used for airdrops, getNetwork value is used when
	// it's empty.
	FriendbotURL string
	// CacheSize is the number of contract instances cached, 128 by default.
	CacheSize int
}

// cache stores cache values for the RPC client methods.
type cache struct {
	initDone     bool
	passphrase   string
	networkID    util.Uint256
	friendbotURL string
}

// New returns a new Client ready to use. You should call Init method to
// initialize network parameters before building transactions.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func initClient(_ context.Context, cl *Client, endpoint string, opts Options) error {
	url, err := url.Parse(endpoint)
	if err != nil {
		return err
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = defaultInitTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
		Timeout: opts.RequestTimeout,
	}

	instances, err := lru.New(opts.CacheSize)
	if err != nil {
		return err
	}
	cl.cli = httpClient
	cl.endpoint = url
	cl.instances = instances
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = (cl).getRequestID
	cl.opts = opts
	cl.requestF = cl.makeHTTPRequest
	if opts.RequestsPerSecond > 0 {
		cl.limiter = ratelimit.New(opts.RequestsPerSecond)
	}
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Init waits for the node to report healthy status and caches the network
// passphrase. Health checks are retried with exponential backoff for up to
// Options.InitTimeout. This method should be called before any
// transaction-related requests.
func (c *Client) Init(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = c.opts.InitTimeout

	err := backoff.Retry(func() error {
		h, err := c.GetHealth(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if h.Status != sorobanrpc.HealthStatusHealthy {
			return fmt.Errorf("node is %s", h.Status)
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("node is not healthy: %w", err)
	}

	network, err := c.GetNetwork(ctx)
	if err != nil {
		return fmt.Errorf("failed to get network: %w", err)
	}

	c.cacheLock.Lock()
	defer c.cacheLock.Unlock()

	c.cache.passphrase = network.Passphrase
	c.cache.networkID = transaction.NetworkID(network.Passphrase)
	c.cache.friendbotURL = c.opts.FriendbotURL
	if c.cache.friendbotURL == "" {
		c.cache.friendbotURL = network.FriendbotURL
	}
	c.cache.initDone = true
	return nil
}

// Close closes unused underlying networks connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

// Endpoint returns the client endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// NetworkID returns the network id of the network the client is connected
// to. Init must be called before using it.
func (c *Client) NetworkID() (util.Uint256, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	if !c.cache.initDone {
		return util.Uint256{}, errNetworkNotInitialized
	}
	return c.cache.networkID, nil
}

// Passphrase returns the network passphrase. Init must be called before
// using it.
func (c *Client) Passphrase() (string, error) {
	c.cacheLock.RLock()
	defer c.cacheLock.RUnlock()

	if !c.cache.initDone {
		return "", errNetworkNotInitialized
	}
	return c.cache.passphrase, nil
}

func (c *Client) performRequest(ctx context.Context, method string, p any, v any) error {
	var r = sorobanrpc.Request{
		JSONRPC: sorobanrpc.JSONRPCVersion,
		Method:  method,
		Params:  p,
		ID:      c.getNextRequestID(),
	}

	if c.limiter != nil {
		c.limiter.Take()
	}
	raw, err := c.requestF(ctx, &r)

	if raw != nil && raw.Error != nil {
		return raw.Error
	} else if err != nil {
		return err
	} else if raw == nil || raw.Result == nil {
		return errors.New("no result returned")
	}
	return json.Unmarshal(raw.Result, v)
}

func (c *Client) makeHTTPRequest(ctx context.Context, r *sorobanrpc.Request) (*sorobanrpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(sorobanrpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send us a proper JSON anyway, so look there first and if
	// it parses, it has more relevant data than HTTP error code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping attempts to create a connection to the endpoint
// and returns an error if there is any.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("tcp", c.endpoint.Host, c.opts.DialTimeout)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
