package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	// Health check endpoint
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// subrouters report their own method mismatches
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	v1.HandleFunc("/params", s.handleParams).Methods(http.MethodGet)
	v1.HandleFunc("/msgs", s.handleSubmit).Methods(http.MethodPost)
	v1.HandleFunc("/msg-types", s.handleMsgTypes).Methods(http.MethodGet)
	v1.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodGet)
	v1.HandleFunc("/policies/{address}", s.handlePolicy).Methods(http.MethodGet)
	v1.HandleFunc("/policies/{address}/claims/{round:[0-9]+}", s.handleClaim).Methods(http.MethodGet)
	v1.HandleFunc("/masters", s.handleMasters).Methods(http.MethodGet)
	v1.HandleFunc("/masters/{address}", s.handleMaster).Methods(http.MethodGet)
	v1.HandleFunc("/masters/{address}/flights", s.handleFlights).Methods(http.MethodGet)
	v1.HandleFunc("/masters/{address}/flights/{child:[0-9]+}", s.handleFlight).Methods(http.MethodGet)
	v1.HandleFunc("/waterfall", s.handleWaterfall).Methods(http.MethodPost)
	v1.HandleFunc("/observations", s.handleObservation).Methods(http.MethodPost)
	if s.events != nil {
		v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	}

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func handleMethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: req.Method + " not allowed on " + req.URL.Path})
}
