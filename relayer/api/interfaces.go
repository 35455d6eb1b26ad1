package api

import (
	"context"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/relayer/eventstore"
	"github.com/EventSure/riskmesh-sub000/relayer/store"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// Ledger is the read side the API server queries.
type Ledger interface {
	Query(fn func(ctx context.Context, qs types.QueryServer) error) error
	Height() int64
}

// Submitter commits messages on behalf of API callers.
type Submitter interface {
	Submit(ctx context.Context, msg types.Msg) (app.Result, error)
}

// EventReader serves the audit trail.
type EventReader interface {
	GetEvents(f eventstore.Filter) ([]store.LedgerEvent, error)
}
