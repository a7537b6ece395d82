package widget

import (
	"errors"
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/bar-pulse/pkg/markup"
	"gitlab.com/tinyland/lab/bar-pulse/pkg/text"
)

// ErrRenderPanic wraps a panic recovered from a render hook.
var ErrRenderPanic = errors.New("render hook panicked")

// Renderer formats a sample of type S into display text. Custom renderers
// may emit markup.
type Renderer[S any] interface {
	Render(sample S) (string, error)
}

// RenderFunc adapts an infallible function to Renderer.
type RenderFunc[S any] func(sample S) string

// Render implements Renderer.
func (f RenderFunc[S]) Render(sample S) (string, error) {
	return f(sample), nil
}

// Hook pairs an optional caller-supplied renderer with a sampler's built-in
// default. The zero value renders nothing.
type Hook[S any] struct {
	custom   Renderer[S]
	fallback Renderer[S]
	logger   *slog.Logger
}

// NewHook builds a Hook. custom may be nil; fallback must be total.
func NewHook[S any](custom, fallback Renderer[S], logger *slog.Logger) Hook[S] {
	if f, ok := custom.(RenderFunc[S]); ok && f == nil {
		custom = nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Hook[S]{custom: custom, fallback: fallback, logger: logger}
}

// Markup reports whether fragments from this hook carry markup, which is
// exactly when a custom renderer was supplied.
func (h Hook[S]) Markup() bool {
	return h.custom != nil
}

// Render formats sample. A failing or panicking custom renderer is replaced
// by the default output, escaped so it stays valid markup.
func (h Hook[S]) Render(sample S) string {
	if h.custom == nil {
		return h.renderDefault(sample)
	}
	s, err := h.tryCustom(sample)
	if err == nil {
		return s
	}
	h.logger.Warn("render hook failed, using default format", "error", err)
	return markup.Escape(h.renderDefault(sample))
}

// Fragment renders sample into a single non-stretching fragment.
func (h Hook[S]) Fragment(attr text.Attributes, sample S) text.Text {
	return text.New(attr, h.Render(sample), h.Markup())
}

func (h Hook[S]) tryCustom(sample S) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
	}()
	return h.custom.Render(sample)
}

func (h Hook[S]) renderDefault(sample S) string {
	if h.fallback == nil {
		return fmt.Sprint(sample)
	}
	s, err := h.fallback.Render(sample)
	if err != nil {
		return fmt.Sprint(sample)
	}
	return s
}
