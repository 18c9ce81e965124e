// Package durfmt renders event durations and timestamps for the CLI's
// --printf/--time-format/--timestamp-format flags (spec.md §6).
//
// The duration mini-language (%S, %I, or a mix of %h/%m/%s/%i) is ported
// from make_duration_formatter in
// original_source/auditok/cmdline_util.py. Timestamp formatting delegates
// to github.com/lestrrat-go/strftime, already used for exactly this
// purpose in doismellburning-samoyed/src/xmit.go and src/tq.go.
package durfmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// TimeFormatError reports an unknown duration-format directive (spec.md §7
// "unknown time-format directive").
type TimeFormatError struct {
	Directive string
}

func (e *TimeFormatError) Error() string {
	return fmt.Sprintf("durfmt: unknown time format directive %q", e.Directive)
}

// DurationFormatter renders a duration in seconds as a string.
type DurationFormatter func(seconds float64) string

// NewDurationFormatter builds a DurationFormatter from one of:
//   - "%S": fixed 3-decimal seconds, e.g. "1.234"
//   - "%I": integer milliseconds, e.g. "1234"
//   - any mix of %h/%m/%s/%i (hours/minutes/seconds/millis, zero-padded)
//
// %S and %I are mutually exclusive with the %h/%m/%s/%i directives, per
// spec.md §6.
func NewDurationFormatter(format string) (DurationFormatter, error) {
	switch format {
	case "%S":
		return func(seconds float64) string {
			return fmt.Sprintf("%.3f", seconds)
		}, nil
	case "%I":
		return func(seconds float64) string {
			return fmt.Sprintf("%d", int64(seconds*1000))
		}, nil
	default:
		return compileComponentFormat(format)
	}
}

func compileComponentFormat(format string) (DurationFormatter, error) {
	check := format
	for _, directive := range []string{"%h", "%m", "%s", "%i"} {
		check = strings.ReplaceAll(check, directive, "")
	}
	if i := strings.IndexByte(check, '%'); i >= 0 {
		end := i + 2
		if end > len(check) {
			end = len(check)
		}
		return nil, &TimeFormatError{Directive: check[i:end]}
	}
	return func(seconds float64) string {
		millis := int64(seconds * 1000)
		hrs := millis / 3600000
		millis %= 3600000
		mins := millis / 60000
		millis %= 60000
		secs := millis / 1000
		millis %= 1000
		rendered := format
		rendered = strings.ReplaceAll(rendered, "%h", fmt.Sprintf("%02d", hrs))
		rendered = strings.ReplaceAll(rendered, "%m", fmt.Sprintf("%02d", mins))
		rendered = strings.ReplaceAll(rendered, "%s", fmt.Sprintf("%02d", secs))
		rendered = strings.ReplaceAll(rendered, "%i", fmt.Sprintf("%03d", millis))
		return rendered
	}, nil
}

// Timestamp renders t using a strftime-syntax layout (spec.md §6
// "--timestamp-format (strftime-like)").
func Timestamp(layout string, t time.Time) (string, error) {
	return strftime.Format(layout, t)
}
