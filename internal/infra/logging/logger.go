// Package logging es el log del bot: archivo por día, espejo en consola y alerta por webhook
// para los registros que traen error.
//
// Los llamadores encolan y vuelven; una goroutine escritora es la única dueña del archivo.
// Las alertas (webhook + incident store) corren en otra goroutine para no frenar la escritura.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

// Alert es lo que viaja al webhook de errores.
type Alert struct {
	ID        string
	Level     Level
	Message   string
	Exception string
	Time      time.Time
}

type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}

// Lo implementa storage.IncidentRepo
type Sink interface {
	Insert(ctx context.Context, in storage.Incident) error
}

type Options struct {
	Dir        string
	Prefix     string
	MinLevel   Level
	QueueSize  int
	Console    io.Writer
	Alerter    Alerter
	Sink       Sink
	AlertEvery time.Duration // mínimo entre webhooks (ráfaga AlertBurst)
	AlertBurst int
	Now        func() time.Time
}

type record struct {
	level Level
	msg   string
	err   error
	at    time.Time
}

type Logger struct {
	opts Options

	mu     sync.RWMutex
	closed bool
	ch     chan record
	alerts chan Alert

	done      chan struct{}
	alertDone chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

var (
	debugColor    = color.New(color.FgHiBlack)
	infoColor     = color.New()
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed)
	criticalColor = color.New(color.FgRed, color.Bold)
)

// New crea el directorio, escribe el banner de arranque y levanta las goroutines.
func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if opts.Prefix == "" {
		opts.Prefix = "obstBot"
	}
	if opts.MinLevel == 0 {
		opts.MinLevel = LevelInfo
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AlertEvery <= 0 {
		opts.AlertEvery = 2 * time.Second
	}
	if opts.AlertBurst <= 0 {
		opts.AlertBurst = 5
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}

	l := &Logger{
		opts:      opts,
		ch:        make(chan record, opts.QueueSize),
		alerts:    make(chan Alert, 64),
		done:      make(chan struct{}),
		alertDone: make(chan struct{}),
	}
	if err := l.banner(); err != nil {
		return nil, err
	}

	go l.writer()
	go l.alerter()
	return l, nil
}

func (l *Logger) banner() error {
	now := l.opts.Now()
	f, err := os.OpenFile(l.path(now), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer f.Close()
	ts := now.Format("15:04:05")
	_, err = fmt.Fprintf(f, "[%s] [INFO] %s\n[%s] [INFO] Initialized logging file while booting on %s\n",
		ts, strings.Repeat("-", 66), ts, now.Format(time.ANSIC))
	return err
}

func (l *Logger) Debug(msg string)               { l.Log(LevelDebug, msg, nil) }
func (l *Logger) Info(msg string)                { l.Log(LevelInfo, msg, nil) }
func (l *Logger) Warn(msg string)                { l.Log(LevelWarn, msg, nil) }
func (l *Logger) Error(msg string, err error)    { l.Log(LevelError, msg, err) }
func (l *Logger) Critical(msg string, err error) { l.Log(LevelCritical, msg, err) }

// Log encola y vuelve. Con la cola llena el registro se descarta y se cuenta.
func (l *Logger) Log(level Level, msg string, err error) {
	if level < l.opts.MinLevel {
		return
	}
	rec := record{level: level, msg: msg, err: err, at: l.opts.Now()}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.ch <- rec:
	default:
		l.dropped.Add(1)
	}
}

// Dropped cuenta registros descartados (cola llena o logger cerrado).
func (l *Logger) Dropped() int64 { return l.dropped.Load() }

// Close drena la cola y espera a que salgan las alertas pendientes.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.ch)
		l.mu.Unlock()
		<-l.done
		<-l.alertDone
	})
}

func (l *Logger) writer() {
	defer close(l.done)
	defer close(l.alerts)
	for rec := range l.ch {
		exc := l.write(rec)
		// sólo ERROR y CRITICAL se alertan; un WARN con err queda en archivo y consola
		if rec.err == nil || rec.level < LevelError {
			continue
		}
		a := Alert{ID: uuid.NewString(), Level: rec.level, Message: rec.msg, Exception: exc, Time: rec.at}
		select {
		case l.alerts <- a:
		default:
			l.console(LevelWarn, "[logging] alert queue full, dropping "+a.ID)
		}
	}
}

// write abre, agrega y cierra. Devuelve la línea de excepción (si hubo).
func (l *Logger) write(rec record) string {
	line := fmt.Sprintf("[%s] [%s] %s", rec.at.Format("15:04:05"), rec.level, rec.msg)
	exc := ""
	if rec.err != nil {
		exc = ExceptionLine(rec.err)
	}

	l.console(rec.level, line)
	if exc != "" {
		l.console(rec.level, exc)
	}

	f, err := os.OpenFile(l.path(rec.at), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.console(LevelError, "[logging] open file: "+err.Error())
		return exc
	}
	defer f.Close()

	out := line + "\n"
	if exc != "" {
		out += exc + "\n"
	}
	if _, err := f.WriteString(out); err != nil {
		l.console(LevelError, "[logging] write file: "+err.Error())
	}
	return exc
}

func (l *Logger) alerter() {
	defer close(l.alertDone)
	lim := rate.NewLimiter(rate.Every(l.opts.AlertEvery), l.opts.AlertBurst)

	for a := range l.alerts {
		if l.opts.Sink != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			typ, text, _ := strings.Cut(a.Exception, ": ")
			err := l.opts.Sink.Insert(ctx, storage.Incident{
				ID:        a.ID,
				Level:     a.Level.String(),
				Message:   a.Message,
				ErrorType: typ,
				ErrorText: text,
				CreatedAt: a.Time,
			})
			cancel()
			if err != nil {
				l.console(LevelWarn, "[logging] incident insert: "+err.Error())
			}
		}

		if l.opts.Alerter == nil {
			continue
		}
		if !lim.Allow() {
			l.console(LevelWarn, "[logging] alert rate limited: "+a.ID)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := l.opts.Alerter.Alert(ctx, a)
		cancel()
		if err != nil {
			l.console(LevelWarn, "[logging] webhook alert failed: "+err.Error())
		}
	}
}

func (l *Logger) console(level Level, line string) {
	c := infoColor
	switch {
	case level >= LevelCritical:
		c = criticalColor
	case level >= LevelError:
		c = errorColor
	case level >= LevelWarn:
		c = warnColor
	case level < LevelInfo:
		c = debugColor
	}
	_, _ = c.Fprintln(l.opts.Console, line)
}

func (l *Logger) path(t time.Time) string {
	return filepath.Join(l.opts.Dir, fmt.Sprintf("%s_%s.log", l.opts.Prefix, t.Format("02-01-2006")))
}

// ExceptionLine: "<tipo>: <texto>"
func ExceptionLine(err error) string {
	return ErrorType(err) + ": " + err.Error()
}

func ErrorType(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
