package util

import (
	"bytes"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

// timestampLayout is dd MMM yy HH:mm:ss, e.g. "26 Aug 26 14:03:59".
const timestampLayout = "02 Jan 06 15:04:05"

// Formatter renders log lines as `<level> [<timestamp>]: <message>`, with
// structured fields appended as key=value pairs in stable order.
type Formatter struct{}

// Format implements logrus.Formatter.
func (f Formatter) Format(entry *log.Entry) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s [%s]: %s", entry.Level.String(),
		entry.Time.Format(timestampLayout), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&buf, " %s=%v", key, entry.Data[key])
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
