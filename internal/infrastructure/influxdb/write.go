package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteCommandMetric records one API command round trip.
//
// This is the primary measurement: every device-control request lands
// here with its route, method, response status, and latency. The write
// is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - route: The matched route pattern (e.g., "/audio/volume/up")
//   - method: HTTP method
//   - status: HTTP response status code
//   - duration: Handler round-trip time
//
// Example:
//
//	client.WriteCommandMetric("/audio/volume/up", "POST", 200, 48*time.Millisecond)
func (c *Client) WriteCommandMetric(route, method string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"api_request",
		map[string]string{
			"route":  route,
			"method": method,
			"status": strconv.Itoa(status),
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Microseconds()) / 1000.0,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSessionEvent records a session lifecycle event.
//
// Used for tracking initialization successes, failures, and disconnects
// over time.
//
// Parameters:
//   - event: Event name (e.g., "initialized", "init_failed", "cleared")
//   - deviceID: Device identifier (may be empty when initialization failed)
func (c *Client) WriteSessionEvent(event, deviceID string) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{
		"event": event,
	}
	if deviceID != "" {
		tags["device_id"] = deviceID
	}

	point := write.NewPoint(
		"session_events",
		tags,
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
