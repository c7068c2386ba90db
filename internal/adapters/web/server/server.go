// Package server implements the control/status HTTP server: a JSON
// status snapshot, a low-frequency websocket push of the same snapshot,
// Prometheus metrics, an on-demand PDF session report, and a runtime
// config patch endpoint. It is the Go expression of the external
// "display surface" and "serial console" interfaces, upgraded from a
// fire-and-forget text grid to a structured API since this rewrite runs
// as a host service rather than firmware with a physical display
// attached.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StatusSnapshot mirrors the fields the text-grid display would have
// rendered: pool sizes, current band/channel, frame counters, mesh
// status, and the most recently learned SSID.
type StatusSnapshot struct {
	Uptime time.Duration `json:"uptime_seconds"`

	ActivePoolSize  int `json:"active_pool_size"`
	DormantPoolSize int `json:"dormant_pool_size"`

	CurrentChannel int  `json:"current_channel"`
	Is5GHz         bool `json:"is_5ghz"`

	TXCount          int64 `json:"tx_count"`
	InteractionCount int64 `json:"interaction_count"`
	BeaconCount      int64 `json:"beacon_count"`
	MeshRebroadcasts int64 `json:"mesh_rebroadcasts"`

	MeshDetected bool `json:"mesh_detected"`

	LastLearnedSSID  string `json:"last_learned_ssid"`
	LearnedSSIDCount int    `json:"learned_ssid_count"`

	GovernorLowMemory bool `json:"governor_low_memory"`
}

// StatusProvider supplies the current snapshot on demand.
type StatusProvider interface {
	Status() StatusSnapshot
}

// ConfigPatch is the runtime-adjustable subset of configuration: pool
// target sizes are process-lifetime constants and are intentionally not
// exposed here.
type ConfigPatch struct {
	EnableMeshRelay      *bool `json:"enable_mesh_relay,omitempty"`
	EnableInteractionSim *bool `json:"enable_interaction_sim,omitempty"`
	EnableSequenceGaps   *bool `json:"enable_sequence_gaps,omitempty"`
}

// ConfigMutator applies a runtime config patch.
type ConfigMutator interface {
	ApplyConfigPatch(ConfigPatch)
}

// ReportBuilder renders the current session into a PDF document.
type ReportBuilder interface {
	BuildReport() ([]byte, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// statusPushInterval bounds the websocket broadcast to <= 0.5 Hz.
const statusPushInterval = 2 * time.Second

// Server hosts the control/status HTTP + websocket endpoints.
type Server struct {
	Addr   string
	Status StatusProvider
	Config ConfigMutator
	Report ReportBuilder

	srv *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer constructs a control/status server bound to addr.
func NewServer(addr string, status StatusProvider, cfg ConfigMutator, report ReportBuilder) *Server {
	return &Server{
		Addr:    addr,
		Status:  status,
		Config:  cfg,
		Report:  report,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run starts the HTTP server and websocket broadcaster, blocking until
// ctx is cancelled, at which point it shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.broadcastLoop(ctx)

	handler := s.routes()
	instrumented := otelhttp.NewHandler(handler, "ghostwalk-control-server")

	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           instrumented,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("control server shutdown error: %v", err)
		}
	}()

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler returns the unwrapped route table, for tests that want to
// exercise handlers directly without binding a real listener.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(RouteStatus, s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc(RouteWebSocket, s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc(RouteReportPDF, s.handleReport).Methods(http.MethodGet)
	r.HandleFunc(RouteConfigPatch, s.handleConfigPatch).Methods(http.MethodPost)
	r.Handle(RouteMetrics, promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Status.Status())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, err := s.Report.BuildReport()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(data)
}

func (s *Server) handleConfigPatch(w http.ResponseWriter, r *http.Request) {
	var patch ConfigPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid config patch", http.StatusBadRequest)
		return
	}
	s.Config.ApplyConfigPatch(patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("control server: websocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer func() {
			conn.Close()
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcastStatus()
		}
	}
}

func (s *Server) broadcastStatus() {
	data, err := json.Marshal(s.Status.Status())
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
