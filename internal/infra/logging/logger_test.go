package logging

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

var fixed = time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

// consola compartida por las dos goroutines del logger
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type fakeAlerter struct {
	mu     sync.Mutex
	alerts []Alert
}

func (f *fakeAlerter) Alert(_ context.Context, a Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return nil
}

type fakeSink struct {
	mu   sync.Mutex
	rows []storage.Incident
}

func (f *fakeSink) Insert(_ context.Context, in storage.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, in)
	return nil
}

func newTestLogger(t *testing.T, opts Options) (*Logger, string) {
	t.Helper()
	dir := t.TempDir()
	opts.Dir = dir
	opts.Now = func() time.Time { return fixed }
	if opts.Console == nil {
		opts.Console = &syncBuffer{}
	}
	l, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, dir
}

func readLog(t *testing.T, dir, prefix string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, prefix+"_01-05-2024.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestLoggerWritesFile(t *testing.T) {
	l, dir := newTestLogger(t, Options{Prefix: "test"})

	l.Info("hello")
	l.Debug("hidden")
	l.Error("boom", errors.New("disk full"))
	l.Close()

	lines := readLog(t, dir, "test")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "[12:30:45] [INFO] "+strings.Repeat("-", 66) {
		t.Errorf("Unexpected separator: %q", lines[0])
	}
	if lines[1] != "[12:30:45] [INFO] Initialized logging file while booting on "+fixed.Format(time.ANSIC) {
		t.Errorf("Unexpected banner: %q", lines[1])
	}
	if lines[2] != "[12:30:45] [INFO] hello" {
		t.Errorf("Unexpected line: %q", lines[2])
	}
	if lines[3] != "[12:30:45] [ERROR] boom" {
		t.Errorf("Unexpected line: %q", lines[3])
	}
	if lines[4] != "errors.errorString: disk full" {
		t.Errorf("Unexpected exception line: %q", lines[4])
	}
}

func TestLoggerDefaults(t *testing.T) {
	l, dir := newTestLogger(t, Options{})
	l.Warn("careful")
	l.Close()

	lines := readLog(t, dir, "obstBot")
	if got := lines[len(lines)-1]; got != "[12:30:45] [WARN] careful" {
		t.Errorf("Unexpected line: %q", got)
	}
}

func TestLoggerConsoleMirror(t *testing.T) {
	con := &syncBuffer{}
	l, _ := newTestLogger(t, Options{Console: con})
	l.Info("to the console")
	l.Close()

	if !strings.Contains(con.String(), "[12:30:45] [INFO] to the console") {
		t.Errorf("Expected console mirror, got %q", con.String())
	}
}

func TestLoggerAlertsAndSink(t *testing.T) {
	al := &fakeAlerter{}
	sink := &fakeSink{}
	l, _ := newTestLogger(t, Options{Alerter: al, Sink: sink})

	l.Info("no alert for this")
	l.Critical("lavalink down", errors.New("connection refused"))
	l.Close()

	if len(al.alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(al.alerts))
	}
	a := al.alerts[0]
	if a.Level != LevelCritical || a.Message != "lavalink down" || a.Exception != "errors.errorString: connection refused" {
		t.Errorf("Unexpected alert: %+v", a)
	}
	if a.ID == "" || !a.Time.Equal(fixed) {
		t.Errorf("Expected id and time, got %+v", a)
	}

	if len(sink.rows) != 1 {
		t.Fatalf("Expected 1 incident, got %d", len(sink.rows))
	}
	in := sink.rows[0]
	if in.ID != a.ID || in.Level != "CRITICAL" || in.ErrorType != "errors.errorString" || in.ErrorText != "connection refused" {
		t.Errorf("Unexpected incident: %+v", in)
	}
}

func TestLoggerAlertRateLimit(t *testing.T) {
	al := &fakeAlerter{}
	sink := &fakeSink{}
	l, _ := newTestLogger(t, Options{Alerter: al, Sink: sink, AlertEvery: time.Hour, AlertBurst: 1})

	for i := 0; i < 3; i++ {
		l.Error("again", errors.New("x"))
	}
	l.Close()

	if len(al.alerts) != 1 {
		t.Errorf("Expected webhook limited to 1, got %d", len(al.alerts))
	}
	if len(sink.rows) != 3 {
		t.Errorf("Expected every incident stored, got %d", len(sink.rows))
	}
}

func TestLoggerDropsAfterClose(t *testing.T) {
	l, _ := newTestLogger(t, Options{})
	l.Close()
	l.Close()
	l.Info("late")
	if l.Dropped() != 1 {
		t.Errorf("Expected 1 dropped record, got %d", l.Dropped())
	}
}

func TestErrorType(t *testing.T) {
	var pe *os.PathError
	_, err := os.Open(filepath.Join(t.TempDir(), "missing"))
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *os.PathError, got %T", err)
	}
	if got := ErrorType(err); got != "fs.PathError" {
		t.Errorf("Expected fs.PathError, got %q", got)
	}
	if got := ExceptionLine(errors.New("x")); got != "errors.errorString: x" {
		t.Errorf("Unexpected exception line %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":    LevelDebug,
		" INFO ":   LevelInfo,
		"warning":  LevelWarn,
		"ERROR":    LevelError,
		"critical": LevelCritical,
		"nope":     LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if LevelCritical.String() != "CRITICAL" || LevelDebug.String() != "DEBUG" {
		t.Error("Unexpected level names")
	}
}
