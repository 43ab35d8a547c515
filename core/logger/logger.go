package logger

import (
	"context"
	"io"
	"log/slog"
)

// ContextExtractor pulls a single attribute out of a context, returning
// ok=false when there is nothing to extract.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type config struct {
	level       slog.Leveler
	json        bool
	out         io.Writer
	handlerOpts *slog.HandlerOptions
	attrs       []slog.Attr
	extractors  []ContextExtractor
}

// Option configures a Logger built by New.
type Option func(*config)

// WithLevel sets the minimum level handled.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) { c.level = l }
}

// WithJSONFormatter switches the handler to slog.NewJSONHandler.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithOutput overrides the default io.Discard sink.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithHandlerOptions overrides the slog.HandlerOptions passed to the
// underlying handler constructor, e.g. to set AddSource or ReplaceAttr.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) { c.handlerOpts = opts }
}

// WithAttr attaches attrs to every record the logger emits.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextExtractors registers functions run against a record's context
// (via *Context variants of the slog API) to pull in request-scoped
// attributes automatically.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, extractors...) }
}

// WithDevelopment configures text output at debug level, tagged with name.
func WithDevelopment(name string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.json = false
		c.attrs = append(c.attrs, slog.String("service", name), slog.String("env", "development"))
	}
}

// WithProduction configures JSON output at info level, tagged with name.
func WithProduction(name string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.attrs = append(c.attrs, slog.String("service", name), slog.String("env", "production"))
	}
}

// WithStaging is WithProduction with the env tag changed.
func WithStaging(name string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.attrs = append(c.attrs, slog.String("service", name), slog.String("env", "staging"))
	}
}

// contextHandler wraps a slog.Handler, running the configured extractors
// against a record's context before delegating.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs), h.extractors}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name), h.extractors}
}

// New builds a *slog.Logger from the given options. With no options it
// produces a no-op logger writing to io.Discard, matching every other
// package's zero-value default in this module.
func New(opts ...Option) *slog.Logger {
	c := &config{out: io.Discard}
	for _, opt := range opts {
		opt(c)
	}

	hopts := c.handlerOpts
	if hopts == nil {
		hopts = &slog.HandlerOptions{Level: c.level}
	} else if hopts.Level == nil {
		hopts.Level = c.level
	}

	var h slog.Handler
	if c.json {
		h = slog.NewJSONHandler(c.out, hopts)
	} else {
		h = slog.NewTextHandler(c.out, hopts)
	}
	if len(c.extractors) > 0 {
		h = contextHandler{h, c.extractors}
	}

	l := slog.New(h)
	if len(c.attrs) > 0 {
		args := make([]any, 0, len(c.attrs))
		for _, a := range c.attrs {
			args = append(args, a)
		}
		l = l.With(args...)
	}
	return l
}

// SetAsDefault installs l as slog's package-level default via
// slog.SetDefault.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
