package workers

import (
	"fmt"
	"regexp"
	"strconv"
)

// placeholderRe matches Python-style brace placeholders with an optional
// format specifier, e.g. "{id}", "{start:.3f}", "{duration:.2f}"
// (spec.md §6 "Filename templates: Python-style brace placeholders with
// format specifiers; numeric placeholders are seconds (floats)").
var placeholderRe = regexp.MustCompile(`\{(id|start|end|duration|file|timestamp)(:[^}]+)?\}`)

// renderTemplate substitutes {id}, {start}, {end}, {duration} (and,
// where applicable, {file}/{timestamp}) into tmpl. A numeric placeholder's
// format specifier, if present, is interpreted as a printf-style
// precision (".Nf"); a specifier with no precision renders three
// decimals, and a placeholder with no specifier renders the shortest
// plain decimal form.
func renderTemplate(tmpl string, values map[string]string, numeric map[string]float64) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		groups := placeholderRe.FindStringSubmatch(match)
		name, spec := groups[1], groups[2]
		if v, ok := values[name]; ok {
			return v
		}
		if f, ok := numeric[name]; ok {
			return formatNumeric(f, spec)
		}
		return match
	})
}

func formatNumeric(v float64, spec string) string {
	if spec == "" {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// spec looks like ":.3f" -- strip the leading colon and reuse the
	// precision digit against Go's own %f verb.
	prec := -1
	for i := 1; i < len(spec); i++ {
		if spec[i] == '.' {
			j := i + 1
			for j < len(spec) && spec[j] >= '0' && spec[j] <= '9' {
				j++
			}
			if n, err := strconv.Atoi(spec[i+1 : j]); err == nil {
				prec = n
			}
			break
		}
	}
	if prec < 0 {
		prec = 3
	}
	return fmt.Sprintf("%.*f", prec, v)
}
