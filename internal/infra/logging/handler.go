package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Handler devuelve un slog.Handler que escribe por este logger.
// Un atributo "err" (o "error") con un error se vuelve la excepción del registro.
func (l *Logger) Handler() slog.Handler {
	return &handler{l: l}
}

type handler struct {
	l      *Logger
	attrs  []slog.Attr
	groups []string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.l.opts.MinLevel.slog()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var (
		b   strings.Builder
		err error
	)
	b.WriteString(r.Message)

	add := func(a slog.Attr, key string) {
		a.Value = a.Value.Resolve()
		if isErrKey(a.Key) {
			if e, ok := a.Value.Any().(error); ok && err == nil {
				err = e
				return
			}
		}
		if a.Equal(slog.Attr{}) {
			return
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value)
	}
	// h.attrs ya vienen con el prefijo de grupo de cuando se agregaron
	for _, a := range h.attrs {
		add(a, a.Key)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a, h.prefix(a.Key))
		return true
	})

	h.l.Log(fromSlog(r.Level), b.String(), err)
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if !isErrKey(a.Key) {
			a.Key = h.prefix(a.Key)
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func (h *handler) prefix(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func isErrKey(k string) bool { return k == "err" || k == "error" }
