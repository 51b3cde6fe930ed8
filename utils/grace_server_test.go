package utils

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestServer_stopRunsHooksOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewServer("127.0.0.1:0", handler, zaptest.NewLogger(t))

	var calls []string
	srv.OnShutdown(func(context.Context) { calls = append(calls, "first") })
	srv.OnShutdown(func(context.Context) { calls = append(calls, "second") })

	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe() }()

	deadline := time.Now().Add(5 * time.Second)
	for srv.listenerAddr() == "" {
		if time.Now().After(deadline) {
			t.Fatal("server did not start listening")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + srv.listenerAddr())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	srv.Stop()
	srv.Stop()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after Stop")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("hooks ran as %v", calls)
	}
}
