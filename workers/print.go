package workers

import (
	"fmt"
	"io"
	"os"

	"github.com/amsehili/auditok-go/durfmt"
)

// PrintWorker formats and writes one line per detection to an output
// writer (standard output by default), per spec.md §4.G "Print worker".
//
// Grounded on PrintWorker in original_source/auditok/workers.py.
type PrintWorker struct {
	*base
	format          string
	formatDuration  durfmt.DurationFormatter
	timestampFormat string
	out             io.Writer
}

// NewPrintWorker constructs and starts a PrintWorker. printFormat uses the
// {id}, {start}, {end}, {duration}, {timestamp} placeholders of spec.md §6.
func NewPrintWorker(printFormat string, formatDuration durfmt.DurationFormatter, timestampFormat string) *PrintWorker {
	w := &PrintWorker{
		format:          printFormat,
		formatDuration:  formatDuration,
		timestampFormat: timestampFormat,
		out:             os.Stdout,
	}
	w.base = newBase(DefaultTimeout, w.processMessage, nil)
	return w
}

func (w *PrintWorker) processMessage(msg Message) {
	det := msg.Detection
	timestamp, err := durfmt.Timestamp(w.timestampFormat, det.Timestamp)
	if err != nil {
		timestamp = det.Timestamp.String()
	}
	text := renderTemplate(w.format, map[string]string{
		"id":        fmt.Sprintf("%d", det.ID),
		"start":     w.formatDuration(det.Start),
		"end":       w.formatDuration(det.End),
		"duration":  w.formatDuration(det.Duration),
		"timestamp": timestamp,
	}, nil)
	fmt.Fprintln(w.out, text)
}
