// Package diag collects the ConsistencyWarnings a run produces and
// renders a human-readable summary to standard error, separate from
// the fatal-error path which stops the run outright.
package diag

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Collector accumulates warnings in the order they occur.
type Collector struct {
	messages []string
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one warning.
func (c *Collector) Add(format string, args ...interface{}) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// AddAll records every message in msgs, preserving order.
func (c *Collector) AddAll(msgs []string) {
	c.messages = append(c.messages, msgs...)
}

// Count returns the number of warnings collected.
func (c *Collector) Count() int {
	return len(c.messages)
}

// WriteSummary writes each collected warning as its own line to w,
// followed by a one-line total using humanize for the count so large
// runs ("1,284 warnings" rather than "1284 warnings") read cleanly on
// a terminal.
func (c *Collector) WriteSummary(w io.Writer) {
	for _, m := range c.messages {
		fmt.Fprintln(w, "warning:", m)
	}
	if len(c.messages) > 0 {
		fmt.Fprintf(w, "%s warning(s) collected during this run\n", humanize.Comma(int64(len(c.messages))))
	}
}

// ByteSize renders n bytes in human-readable form ("4.1 MB" rather
// than a raw byte count), for the input-size log lines.
func ByteSize(n int) string {
	return humanize.Bytes(uint64(n))
}
