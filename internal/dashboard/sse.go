package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/gin-gonic/gin"
)

// handleStatsStream pushes a "stats" event whenever the population counts
// change. It only reads; sweeping stays with the scheduler and the snapshot
// endpoint.
func handleStatsStream(opts *StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		ctx := c.Request.Context()

		var last fleet.Snapshot
		push := func() {
			snap, err := opts.Fleet.Aggregate(ctx)
			if err != nil {
				writeSSE(c.Writer, "error", map[string]string{"error": "internal_error"})
				c.Writer.Flush()
				return
			}
			if reflect.DeepEqual(snap, last) {
				return
			}
			last = snap
			writeSSE(c.Writer, "stats", snap)
			c.Writer.Flush()
		}

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		push()

		ticker := time.NewTicker(opts.StreamInterval)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				push()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
