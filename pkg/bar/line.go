package bar

import (
	"io"
	"math"
	"strings"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
)

// textEncoder writes plain or ANSI-colored lines.
type textEncoder struct {
	opts *Options
	ansi bool
}

func (e *textEncoder) writeLine(w io.Writer, cells []cell) error {
	_, err := io.WriteString(w, e.line(cells)+"\n")
	return err
}

func (e *textEncoder) line(cells []cell) string {
	parts := make([]string, len(cells))
	used := 0
	var stretch []int
	for i, c := range cells {
		parts[i] = e.render(c)
		used += markup.VisibleWidth(parts[i], false)
		if c.frag.Stretch {
			stretch = append(stretch, i)
		}
	}
	used += len(cells) * markup.VisibleWidth(e.opts.Separator, false)
	if len(cells) > 0 {
		used -= markup.VisibleWidth(e.opts.Separator, false)
	}

	if len(stretch) > 0 && e.opts.Width != nil {
		if free := e.opts.Width() - used; free > 0 {
			share, extra := free/len(stretch), free%len(stretch)
			for n, i := range stretch {
				pad := share
				if n == 0 {
					pad += extra
				}
				parts[i] += strings.Repeat(" ", pad)
			}
		}
	}
	return strings.Join(parts, e.opts.Separator)
}

// render returns the padded visible form of one fragment.
func (e *textEncoder) render(c cell) string {
	f := c.frag
	var body string
	switch {
	case !e.ansi && f.Markup:
		body = markup.Strip(f.Text)
	case !e.ansi:
		body = f.Text
	case f.Markup:
		body = markup.ToANSIBase(f.Text, e.opts.Renderer, markup.Run{
			Foreground: f.Attr.Foreground,
			Background: f.Attr.Background,
		})
	default:
		body = markup.StyleRun(markup.Run{
			Text:       f.Text,
			Foreground: f.Attr.Foreground,
			Background: f.Attr.Background,
		}, e.opts.Renderer)
	}
	return spaces(f.Attr.Padding.Left) + body + spaces(f.Attr.Padding.Right)
}

func spaces(n float64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", int(math.Round(n)))
}
