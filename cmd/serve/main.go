// Command serve exposes the Query Orchestrator over HTTP: it loads a
// prepared graph binary once at startup and answers POST / with a
// routing response envelope, mirroring the reference implementation's
// Lambda request/response shape over a long-lived process instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/azybler/georoute/pkg/graph"
	"github.com/azybler/georoute/pkg/query"
)

func main() {
	graphPath := os.Getenv("GRAPH")
	if graphPath == "" {
		graphPath = "./data/graph.bin"
	}
	port := flag.Int("port", 8080, "HTTP port")
	flag.Parse()

	start := time.Now()

	log.Printf("Loading graph from %s...", graphPath)
	g, err := graph.ReadBinary(graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d directed edges", len(g.Nodes), len(g.Edges))
	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	orchestrator := query.NewOrchestrator(g, nil)

	mux := http.NewServeMux()
	sem := make(chan struct{}, runtime.NumCPU()*2)
	mux.HandleFunc("POST /", withMiddleware(routeHandler(orchestrator), sem))
	mux.HandleFunc("GET /health", withMiddleware(healthHandler, sem))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	if err := listenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// routeHandler adapts the Orchestrator's envelope-in/envelope-out
// Handle into a real HTTP request/response: the request body becomes the
// envelope's "body" field, and the envelope's statusCode/headers/body
// are written straight through.
func routeHandler(o *query.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, `{"Error":"request body too large"}`, http.StatusBadRequest)
			return
		}

		eventJSON, err := json.Marshal(query.RequestEnvelope{Body: string(body)})
		if err != nil {
			http.Error(w, `{"Error":"internal_error"}`, http.StatusInternalServerError)
			return
		}

		out := o.Handle(r.Context(), eventJSON)

		var resp query.ResponseEnvelope
		if err := json.Unmarshal(out, &resp); err != nil {
			http.Error(w, `{"Error":"internal_error"}`, http.StatusInternalServerError)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// withMiddleware wraps a handler with logging, recovery, security
// headers, and concurrency limiting.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"Error":"service_unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v", rec)
				http.Error(w, `{"Error":"internal_error"}`, http.StatusInternalServerError)
			}
		}()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		handler(w, r.WithContext(ctx))
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	}
}

// listenAndServe starts srv and blocks until a shutdown signal arrives.
func listenAndServe(srv *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
