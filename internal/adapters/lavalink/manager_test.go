package lavalink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestManagerGetDoesNotCreate(t *testing.T) {
	m := NewManager(New("http://localhost:2333", "pw"), nil)

	if p, ok := m.Get("g1"); ok || p != nil {
		t.Fatalf("Expected no player, got %v %v", p, ok)
	}
	created := m.GetOrCreate("g1")
	if again := m.GetOrCreate("g1"); again != created {
		t.Error("GetOrCreate should return the same player")
	}
	p, ok := m.Get("g1")
	if !ok || p.Playing() {
		t.Errorf("Expected idle player, ok=%v", ok)
	}
}

func TestManagerDestroy(t *testing.T) {
	var deletes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/v4/sessions/s1/players/g1" {
			deletes.Add(1)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "pw")
	c.setSessionID("s1")
	m := NewManager(c, nil)
	m.GetOrCreate("g1")

	if err := m.Destroy(context.Background(), "g1"); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, ok := m.Player("g1"); ok {
		t.Error("Expected player removed")
	}
	// segundo destroy: ya no hay player local, no llama al nodo
	if err := m.Destroy(context.Background(), "g1"); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if n := deletes.Load(); n != 1 {
		t.Errorf("Expected 1 DELETE, got %d", n)
	}
}

func TestManagerPlayerUpdate(t *testing.T) {
	m := NewManager(New("http://localhost:2333", "pw"), nil)
	p := m.GetOrCreate("g1")
	p.current = &tracks("a")[0]
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	m.OnPlayerUpdate("g1", PlayerState{Position: 12_000})
	m.OnPlayerUpdate("unknown", PlayerState{Position: 1})
	if got := p.Position(); got != 12*time.Second {
		t.Errorf("Expected 12s, got %s", got)
	}
}

func TestManagerResyncAfterResume(t *testing.T) {
	var patches atomic.Int32
	var body atomic.Value
	body.Store(`{"guildId":"g1","track":{"encoded":"enc-a"},"volume":80,"paused":true,"state":{"position":5000}}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body.Load().(string)))
		case http.MethodPatch:
			patches.Add(1)
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "pw")
	c.setSessionID("s1")
	m := NewManager(c, nil)
	p := m.GetOrCreate("g1")
	p.current = &tracks("a")[0]
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	m.resync(context.Background(), p)
	if !p.Paused() || p.Volume() != 80 || p.Position() != 5*time.Second {
		t.Errorf("Expected paused/80/5s, got %v/%d/%s", p.Paused(), p.Volume(), p.Position())
	}
	if n := patches.Load(); n != 0 {
		t.Errorf("Expected no PATCH while the node still plays, got %d", n)
	}

	// el tema terminó sin socket: el nodo ya no tiene track y la cola está vacía
	body.Store(`{"guildId":"g1","track":null,"volume":80,"paused":false,"state":{"position":0}}`)
	m.resync(context.Background(), p)
	if p.Playing() {
		t.Error("Expected player stopped after resync")
	}
	if n := patches.Load(); n != 1 {
		t.Errorf("Expected 1 stop PATCH, got %d", n)
	}
}
