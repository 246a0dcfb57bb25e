package almanac

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valyala/fasttemplate"
)

// fallbackTemplate is used when the config declares no display templates.
const fallbackTemplate = "Day {dayOfYear}, {year} {era}"

// FormatDate renders a date through the calendar's display template (the
// default template with time, or the short date-only template). Template
// tags that reference a subdivision absent from this config render empty;
// a malformed template yields an inline error marker in the output.
// Formatting never returns an error and never panics; callers format
// whole lists of dates in one pass.
func (e *Engine) FormatDate(d Date, includeTime bool) string {
	tmpl := e.cfg.Display.Default
	if !includeTime {
		tmpl = e.cfg.Display.Short
	}
	if tmpl == "" {
		tmpl = e.cfg.Display.Default
	}
	if tmpl == "" {
		tmpl = fallbackTemplate
	}
	return renderTemplate(tmpl, e.buildContext(d))
}

// FormatStoryTime converts a StoryTime and renders it in one step.
func (e *Engine) FormatStoryTime(t StoryTime, includeTime bool) string {
	return e.FormatDate(e.ToDate(t), includeTime)
}

// buildContext assembles the flat tag -> value data context for a date.
// Subdivision entries are added in declared config order, so on an id
// conflict the first declaration wins.
func (e *Engine) buildContext(d Date) map[string]string {
	ctx := map[string]string{
		"year":      strconv.Itoa(abs(d.Year)),
		"era":       e.eraLabel(d.Era),
		"dayOfYear": strconv.Itoa(d.DayOfYear),
		"hour":      fmt.Sprintf("%02d", d.Hour),
		"minute":    fmt.Sprintf("%02d", d.Minute),
	}
	if name, ok := e.Holiday(d); ok {
		ctx["holiday"] = name
	}
	e.addSubdivisionTags(e.cfg.Subdivisions, d, ctx)
	return ctx
}

// addSubdivisionTags adds, for every subdivision the date resolved: the
// display label under the bare id, the raw position under <id>Number, and
// for hierarchical subdivisions the day-within-unit under dayOf<Id>.
func (e *Engine) addSubdivisionTags(subs []Subdivision, d Date, ctx map[string]string) {
	for i := range subs {
		s := &subs[i]
		v, resolved := d.Subdivisions[s.ID]
		if resolved {
			if _, exists := ctx[s.ID]; !exists {
				ctx[s.ID] = unitLabel(s, v)
				ctx[s.ID+"Number"] = strconv.Itoa(v)
				if !s.IsCycle {
					ctx["dayOf"+capitalize(s.ID)] = strconv.Itoa(e.DayOfSubdivision(d, s.ID))
				}
			}
		}
		e.addSubdivisionTags(s.Subdivisions, d, ctx)
	}
}

// unitLabel resolves a 1-indexed position to its display string: the
// custom label array, then the {n} label format, then the bare number.
func unitLabel(s *Subdivision, v int) string {
	if s.UseCustomLabels && v >= 1 && v <= len(s.Labels) {
		return s.Labels[v-1]
	}
	if s.LabelFormat != "" {
		return strings.ReplaceAll(s.LabelFormat, "{n}", strconv.Itoa(v))
	}
	return strconv.Itoa(v)
}

// eraLabel maps the era tag to the configured label, falling back to the
// tag itself when no label is configured.
func (e *Engine) eraLabel(era string) string {
	if era == EraNegative {
		if e.cfg.Eras.Negative != "" {
			return e.cfg.Eras.Negative
		}
	} else if e.cfg.Eras.Positive != "" {
		return e.cfg.Eras.Positive
	}
	return era
}

// renderTemplate executes a {tag} template against the context. Lookup is
// explicit: tags not present in the context write nothing, so a template
// written for a richer calendar (say, one with a "week" subdivision)
// still renders under a config without one. Template parse failures are
// converted to an inline marker rather than propagated.
func renderTemplate(tmpl string, ctx map[string]string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("[template error: %v]", r)
		}
	}()

	t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
	if err != nil {
		return fmt.Sprintf("[template error: %v]", err)
	}
	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := ctx[tag]; ok {
			return w.Write([]byte(v))
		}
		return 0, nil
	})
}

// capitalize upper-cases the first rune of an id for dayOf<Id> tags.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// abs returns the absolute value of an int.
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
