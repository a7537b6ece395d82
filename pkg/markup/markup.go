// Package markup implements the small inline styling language carried by
// fragments whose Markup flag is set. It is a subset of Pango markup: <span>
// with color and weight attributes, <b>, a few no-op presentation tags, and
// the five XML entities.
//
// Widgets only produce markup (Span, Escape). Compositors consume it with
// Parse, Strip or ToANSI.
package markup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by Parse for unbalanced tags, unknown tags or
// broken entities.
var ErrMalformed = errors.New("markup: malformed")

// Run is a contiguous piece of text sharing one style.
type Run struct {
	Text       string
	Foreground string
	Background string
	Bold       bool
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape makes s safe to embed as literal text in markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Reserved reports whether s contains a character that markup would
// interpret.
func Reserved(s string) bool {
	return strings.ContainsAny(s, `&<>"'`)
}

// Span wraps inner in a foreground color span. inner is taken as markup and
// is not escaped.
func Span(foreground, inner string) string {
	return `<span foreground="` + foreground + `">` + inner + `</span>`
}

var entities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

type style struct {
	tag  string
	fg   string
	bg   string
	bold bool
}

// Parse splits s into styled runs.
func Parse(s string) ([]Run, error) {
	var (
		runs  []Run
		buf   strings.Builder
		stack = []style{{}}
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		top := stack[len(stack)-1]
		runs = append(runs, Run{
			Text:       buf.String(),
			Foreground: top.fg,
			Background: top.bg,
			Bold:       top.bold,
		})
		buf.Reset()
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated tag at offset %d", ErrMalformed, i)
			}
			tag := s[i+1 : i+end]
			i += end + 1
			flush()

			if strings.HasPrefix(tag, "/") {
				name := strings.TrimSpace(tag[1:])
				if len(stack) == 1 || stack[len(stack)-1].tag != name {
					return nil, fmt.Errorf("%w: unexpected </%s>", ErrMalformed, name)
				}
				stack = stack[:len(stack)-1]
				continue
			}

			name, attrs, err := splitTag(tag)
			if err != nil {
				return nil, err
			}
			st := stack[len(stack)-1]
			st.tag = name
			switch name {
			case "span":
				for k, v := range attrs {
					switch k {
					case "foreground", "fgcolor", "color":
						st.fg = v
					case "background", "bgcolor":
						st.bg = v
					case "weight", "font_weight":
						st.bold = v == "bold" || v == "heavy" || v == "ultrabold"
					}
				}
			case "b":
				st.bold = true
			case "i", "u", "s", "tt", "small", "big", "sub", "sup":
			default:
				return nil, fmt.Errorf("%w: unknown tag <%s>", ErrMalformed, name)
			}
			stack = append(stack, st)

		case '&':
			semi := strings.IndexByte(s[i:], ';')
			if semi < 0 {
				return nil, fmt.Errorf("%w: unterminated entity at offset %d", ErrMalformed, i)
			}
			r, ok := entity(s[i+1 : i+semi])
			if !ok {
				return nil, fmt.Errorf("%w: unknown entity %q", ErrMalformed, s[i:i+semi+1])
			}
			buf.WriteString(r)
			i += semi + 1

		default:
			buf.WriteByte(s[i])
			i++
		}
	}
	flush()

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unclosed <%s>", ErrMalformed, stack[len(stack)-1].tag)
	}
	return runs, nil
}

// Strip returns the visible text of s. Malformed markup is returned as is.
func Strip(s string) string {
	runs, err := Parse(s)
	if err != nil {
		return s
	}
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func entity(name string) (string, bool) {
	if r, ok := entities[name]; ok {
		return r, true
	}
	if strings.HasPrefix(name, "#") {
		num := name[1:]
		base := 10
		if strings.HasPrefix(num, "x") || strings.HasPrefix(num, "X") {
			num, base = num[1:], 16
		}
		n, err := strconv.ParseUint(num, base, 32)
		if err != nil {
			return "", false
		}
		return string(rune(n)), true
	}
	return "", false
}

// splitTag parses `name key="value" key='value'`.
func splitTag(tag string) (string, map[string]string, error) {
	tag = strings.TrimSpace(tag)
	name, rest, _ := strings.Cut(tag, " ")
	if name == "" {
		return "", nil, fmt.Errorf("%w: empty tag", ErrMalformed)
	}

	attrs := make(map[string]string)
	for {
		rest = strings.TrimLeft(rest, " \t\n")
		if rest == "" {
			return name, attrs, nil
		}
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || eq+1 >= len(rest) {
			return "", nil, fmt.Errorf("%w: bad attribute in <%s>", ErrMalformed, tag)
		}
		key := strings.TrimSpace(rest[:eq])
		quote := rest[eq+1]
		if quote != '"' && quote != '\'' {
			return "", nil, fmt.Errorf("%w: unquoted attribute %q", ErrMalformed, key)
		}
		end := strings.IndexByte(rest[eq+2:], quote)
		if end < 0 {
			return "", nil, fmt.Errorf("%w: unterminated attribute %q", ErrMalformed, key)
		}
		attrs[key] = rest[eq+2 : eq+2+end]
		rest = rest[eq+2+end+1:]
	}
}
