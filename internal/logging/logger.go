// Package logging emits one JSON object per line for application events
// outside the request path (bootstrap, cleanup, background warnings),
// matching the request logger middleware's output format.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput redirects event logging; intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

// Event writes a single structured log line with the given level, message
// and extra fields. Marshal failures drop the entry silently.
func Event(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	b = append(b, '\n')

	mu.Lock()
	out.Write(b)
	mu.Unlock()
}
