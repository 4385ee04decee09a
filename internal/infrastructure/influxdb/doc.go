// Package influxdb provides the bridge's optional metrics sink.
//
// It wraps the official influxdb-client-go v2 library with the patterns
// used across the bridge for connection management, metric writing, and
// health monitoring.
//
// # Purpose
//
// This package records operational telemetry:
//   - API command latencies (route, method, status, duration)
//   - Session lifecycle events (initialized, failed, cleared)
//
// It does not persist speaker state; the bridge remains stateless across
// restarts.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "home",
//	    Bucket:  "bosebridge",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteCommandMetric("/audio/volume", "PUT", 200, 45*time.Millisecond)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
package influxdb
