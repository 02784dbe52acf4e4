package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTimeoutMiddlewareSendsGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	handler := TimeoutMiddleware(20 * time.Millisecond)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"request timeout"}` {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestTimeoutMiddlewareSuppressesLateWrites(t *testing.T) {
	wrote := make(chan error, 1)
	handler := TimeoutMiddleware(20 * time.Millisecond)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			time.Sleep(50 * time.Millisecond)
			_, err := w.Write([]byte("late"))
			wrote <- err
		}))

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	select {
	case err := <-wrote:
		if err != http.ErrHandlerTimeout {
			t.Fatalf("expected ErrHandlerTimeout, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler never finished")
	}
	if body := w.Body.String(); body != `{"error":"request timeout"}` {
		t.Fatalf("late write leaked into response: %q", body)
	}
}

func TestTimeoutMiddlewarePassesFastRequests(t *testing.T) {
	handler := TimeoutMiddleware(time.Second)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("ok"))
		}))

	req := httptest.NewRequest(http.MethodGet, "/fast", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestLoggerMiddlewareWriterSupportsHijack(t *testing.T) {
	handler := LoggerMiddleware(zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := w.(http.Hijacker); !ok {
				t.Error("wrapped writer should expose http.Hijacker")
			}
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
