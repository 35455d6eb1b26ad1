package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	relayerrors "github.com/EventSure/riskmesh-sub000/relayer/errors"
	"github.com/EventSure/riskmesh-sub000/relayer/eventstore"
	"github.com/EventSure/riskmesh-sub000/relayer/feed"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeLedgerError maps a ledger rejection onto an HTTP status by its kind.
func writeLedgerError(w http.ResponseWriter, op string, err error) {
	rerr := relayerrors.FromLedger(op, err)
	kind := types.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case types.KindNotFound:
		status = http.StatusNotFound
	case types.KindAuthorization:
		status = http.StatusForbidden
	case types.KindInvalidInput, types.KindOracleValidation, types.KindInvariantViolation:
		status = http.StatusBadRequest
	case types.KindStateGuard, types.KindTiming, types.KindAlreadySettled:
		status = http.StatusConflict
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: string(rerr.Code), Kind: string(kind)})
}

func decodeBody(r *http.Request, dst interface{}) error {
	bz, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "failed to read body")
	}
	if err := json.Unmarshal(bz, dst); err != nil {
		return errors.Wrap(err, "invalid JSON body")
	}
	return nil
}

// query runs fn and writes its result, or the ledger error, as JSON.
func (s *Server) query(w http.ResponseWriter, op string, fn func(ctx context.Context, qs types.QueryServer) (interface{}, error)) {
	var data interface{}
	err := s.ledger.Query(func(ctx context.Context, qs types.QueryServer) error {
		var err error
		data, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		writeLedgerError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Data: data, Height: s.ledger.Height()})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleParams handles GET /api/v1/params
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	s.query(w, "params", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.Params(ctx, &types.QueryParamsRequest{})
		if err != nil {
			return nil, err
		}
		return res.Params, nil
	})
}

// handleMsgTypes handles GET /api/v1/msg-types
func (s *Server) handleMsgTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, QueryResponse{Data: types.MsgTypes(), Height: s.ledger.Height()})
}

// handleSubmit handles POST /api/v1/msgs
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	msg, err := types.DecodeMsg(req.Type, req.Msg)
	if err != nil {
		writeLedgerError(w, req.Type, err)
		return
	}

	res, err := s.submitter.Submit(r.Context(), msg)
	if err != nil {
		writeLedgerError(w, req.Type, err)
		return
	}

	events := make([]EventResponse, 0, len(res.Events))
	for _, ev := range res.Events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs[a.Key] = a.Value
		}
		events = append(events, EventResponse{Type: ev.Type, Attributes: attrs})
	}
	writeJSON(w, http.StatusOK, SubmitResponse{Height: res.Height, Response: res.Response, Events: events})
}

// handlePolicies handles GET /api/v1/policies?state=<state>
func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeBadRequest(w, "state parameter is required")
		return
	}
	s.query(w, "policies", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.PoliciesByState(ctx, &types.QueryPoliciesByStateRequest{State: types.PolicyState(state)})
		if err != nil {
			return nil, err
		}
		return res.Policies, nil
	})
}

// handlePolicy handles GET /api/v1/policies/{address}
func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.query(w, "policy", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		return qs.Policy(ctx, &types.QueryPolicyRequest{Address: addr})
	})
}

// handleClaim handles GET /api/v1/policies/{address}/claims/{round}
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	round, err := cast.ToUint64E(vars["round"])
	if err != nil {
		writeBadRequest(w, "invalid round")
		return
	}
	s.query(w, "claim", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.Claim(ctx, &types.QueryClaimRequest{Policy: vars["address"], OracleRound: round})
		if err != nil {
			return nil, err
		}
		return res.Claim, nil
	})
}

// handleMasters handles GET /api/v1/masters[?status=<status>]
func (s *Server) handleMasters(w http.ResponseWriter, r *http.Request) {
	status := types.MasterStatus(r.URL.Query().Get("status"))
	s.query(w, "masters", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.MasterPolicies(ctx, &types.QueryMasterPoliciesRequest{Status: status})
		if err != nil {
			return nil, err
		}
		return res.Masters, nil
	})
}

// handleMaster handles GET /api/v1/masters/{address}
func (s *Server) handleMaster(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	s.query(w, "master", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.MasterPolicy(ctx, &types.QueryMasterPolicyRequest{Address: addr})
		if err != nil {
			return nil, err
		}
		return res.Master, nil
	})
}

// handleFlights handles GET /api/v1/masters/{address}/flights[?status=<status>]
func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	status := types.FlightStatus(r.URL.Query().Get("status"))
	s.query(w, "flights", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.FlightPolicies(ctx, &types.QueryFlightPoliciesRequest{Master: addr, Status: status})
		if err != nil {
			return nil, err
		}
		return res.Flights, nil
	})
}

// handleFlight handles GET /api/v1/masters/{address}/flights/{child}
func (s *Server) handleFlight(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	child, err := cast.ToUint64E(vars["child"])
	if err != nil {
		writeBadRequest(w, "invalid child id")
		return
	}
	s.query(w, "flight", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.FlightPolicy(ctx, &types.QueryFlightPolicyRequest{Master: vars["address"], ChildId: child})
		if err != nil {
			return nil, err
		}
		return res.Flight, nil
	})
}

// handleWaterfall handles POST /api/v1/waterfall
func (s *Server) handleWaterfall(w http.ResponseWriter, r *http.Request) {
	var req types.QueryWaterfallRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	s.query(w, "waterfall", func(ctx context.Context, qs types.QueryServer) (interface{}, error) {
		res, err := qs.Waterfall(ctx, &req)
		if err != nil {
			return nil, err
		}
		return res.Waterfall, nil
	})
}

// handleObservation handles POST /api/v1/observations
func (s *Server) handleObservation(w http.ResponseWriter, r *http.Request) {
	var obs types.DelayObservation
	if err := decodeBody(r, &obs); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	err := s.source.Put(r.Context(), obs)
	outcome := "accepted"
	switch {
	case errors.Is(err, feed.ErrDuplicateRound):
		outcome = "duplicate"
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case err != nil:
		outcome = "rejected"
		writeBadRequest(w, err.Error())
	default:
		s.logger.Info().Str("feed", obs.Feed).Uint64("round", obs.Round).Msg("observation received")
		w.WriteHeader(http.StatusAccepted)
	}
	if s.metrics != nil {
		s.metrics.Observations.WithLabelValues(outcome).Inc()
	}
}

// handleEvents handles GET /api/v1/events?type=&subject=&from_height=&limit=
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := eventstore.Filter{Type: q.Get("type"), Subject: q.Get("subject")}

	var err error
	if v := q.Get("from_height"); v != "" {
		if filter.FromHeight, err = cast.ToInt64E(v); err != nil {
			writeBadRequest(w, "invalid from_height")
			return
		}
	}
	filter.Limit = 100
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = cast.ToIntE(v); err != nil || filter.Limit <= 0 {
			writeBadRequest(w, "invalid limit")
			return
		}
	}

	events, err := s.events.GetEvents(filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read events")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to read events"})
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		var attrs map[string]string
		if err := json.Unmarshal(ev.Attributes, &attrs); err != nil {
			s.logger.Warn().Err(err).Uint("id", ev.ID).Msg("skipping undecodable event")
			continue
		}
		out = append(out, EventResponse{Height: ev.Height, Type: ev.Type, Attributes: attrs})
	}
	writeJSON(w, http.StatusOK, QueryResponse{Data: out, Height: s.ledger.Height()})
}
