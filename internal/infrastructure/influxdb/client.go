package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/logging"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// Client writes heating points to one InfluxDB bucket.
//
// Writes are queued in the library's non-blocking write API and sent in
// batches; a failed batch is logged, never returned to the caller.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   *logging.Logger

	mu     sync.RWMutex
	closed bool
}

// Connect pings the server and opens the batched write API.
//
// Batch size, flush interval and the tags added to every point come from
// cfg; zero batch settings fall back to 100 points and 10 seconds.
//
// Parameters:
//   - cfg: influxdb section of the configuration
//   - logger: receives asynchronous write failures
//
// Returns:
//   - *Client: ready for WriteSwitch and WriteStatus
//   - error: ErrConnectionFailed if the server cannot be reached or is unhealthy
func Connect(cfg config.InfluxDBConfig, logger *logging.Logger) (*Client, error) {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := ping(ctx, client); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, cfg.URL, err)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   logger.Component("influxdb"),
	}
	go c.logWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// writeOptions maps the configuration onto the client's batching options.
func writeOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batchSize := uint(100)
	if cfg.BatchSize > 0 {
		batchSize = uint(cfg.BatchSize)
	}
	flushMillis := uint(10_000)
	if cfg.FlushInterval > 0 {
		flushMillis = uint(cfg.FlushInterval) * 1000
	}

	opts := influxdb2.DefaultOptions().
		SetBatchSize(batchSize).
		SetFlushInterval(flushMillis)
	for k, v := range cfg.Tags {
		opts.AddDefaultTag(k, v)
	}
	return opts
}

func ping(ctx context.Context, client influxdb2.Client) error {
	healthy, err := client.Ping(ctx)
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("server not healthy")
	}
	return nil
}

func (c *Client) logWriteErrors(errs <-chan error) {
	for err := range errs {
		c.logger.Error("batch write failed", "error", err)
	}
}

// Close flushes queued points and releases the client.
// Calling Close more than once is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed || c.client == nil {
		c.closed = true
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server. It is registered with the health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.open() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx, c.client); err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	return nil
}

func (c *Client) open() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.client != nil
}
