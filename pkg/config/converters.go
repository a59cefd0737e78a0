package config

import (
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/soroban-go/pkg/rpcclient/waiter"
)

// ClientOptions returns RPC client options.
func (r RPC) ClientOptions() rpcclient.Options {
	return rpcclient.Options{
		DialTimeout:       r.DialTimeout,
		RequestTimeout:    r.RequestTimeout,
		InitTimeout:       r.InitTimeout,
		MaxConnsPerHost:   r.MaxConnsPerHost,
		RequestsPerSecond: r.RequestsPerSecond,
		FriendbotURL:      r.FriendbotURL,
		CacheSize:         r.CacheSize,
	}
}

// PollConfig returns transaction status polling configuration.
func (t Transaction) PollConfig() waiter.PollConfig {
	return waiter.PollConfig{
		Attempts:     t.PollAttempts,
		PollInterval: t.PollInterval,
		RetryCount:   t.PollRetries,
	}
}

// ActorOptions returns Actor options, logger and callbacks are to be set by
// the caller.
func (t Transaction) ActorOptions() actor.Options {
	return actor.Options{
		BaseFee:    t.BaseFee,
		MaxFee:     t.MaxFee,
		Timeout:    t.Timeout,
		Attempts:   t.Attempts,
		PollConfig: t.PollConfig(),
	}
}
