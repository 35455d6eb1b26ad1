package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"

	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/keeper"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// ChainID is stamped on every block header the ledger produces.
const ChainID = "riskmesh-1"

// module account permissions
var maccPerms = map[string][]string{
	authtypes.FeeCollectorName: nil,
	minttypes.ModuleName:       {authtypes.Minter},
	govtypes.ModuleName:        {authtypes.Burner},
}

// Options configures a Ledger. Every field is optional.
type Options struct {
	// DB backs the multistore; defaults to an in-memory database.
	DB dbm.DB
	// Logger defaults to a no-op logger.
	Logger log.Logger
	// Clock supplies block time; defaults to time.Now.
	Clock func() time.Time
	// Authority may update module params; defaults to the gov module account.
	Authority string
	// Params seeds a fresh ledger; defaults to types.DefaultParams with BaseDenom.
	Params *types.Params
}

// Result is the outcome of one committed operation.
type Result struct {
	Height   int64
	Response any
	Events   sdk.Events
}

// Ledger hosts the parametric keeper over a committing multistore. Every
// Execute runs in its own block: it is committed when the operation
// succeeds and discarded otherwise.
type Ledger struct {
	mu sync.Mutex

	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	clock  func() time.Time

	AccountKeeper authkeeper.AccountKeeper
	BankKeeper    bankkeeper.BaseKeeper
	Keeper        keeper.Keeper

	msgServer   types.MsgServer
	queryServer types.QueryServer
}

// NewLedger mounts the auth, bank and parametric stores, loads the latest
// version and runs genesis when the database is empty.
func NewLedger(opts Options) (*Ledger, error) {
	SetSDKConfig()

	if opts.DB == nil {
		opts.DB = dbm.NewMemDB()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Authority == "" {
		opts.Authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()
	}

	encCfg := MakeEncodingConfig()
	keys := storetypes.NewKVStoreKeys(authtypes.StoreKey, banktypes.StoreKey, types.StoreKey)

	cms := store.NewCommitMultiStore(opts.DB, opts.Logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "failed to load ledger state")
	}

	l := &Ledger{
		logger: opts.Logger.With("module", "ledger"),
		db:     opts.DB,
		cms:    cms,
		clock:  opts.Clock,
	}

	l.AccountKeeper = authkeeper.NewAccountKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[authtypes.StoreKey]),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(Bech32PrefixAccAddr),
		Bech32PrefixAccAddr,
		opts.Authority,
	)
	l.BankKeeper = bankkeeper.NewBaseKeeper(
		encCfg.Codec,
		runtime.NewKVStoreService(keys[banktypes.StoreKey]),
		l.AccountKeeper,
		blockedAddresses(),
		opts.Authority,
		opts.Logger,
	)
	l.Keeper = keeper.NewKeeper(
		runtime.NewKVStoreService(keys[types.StoreKey]),
		opts.Logger,
		opts.Authority,
		l.BankKeeper,
	)
	l.msgServer = keeper.NewMsgServerImpl(l.Keeper)
	l.queryServer = keeper.NewQuerier(l.Keeper)

	if cms.LastCommitID().Version == 0 {
		if err := l.initGenesis(opts.Params); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// blockedAddresses returns the module accounts that cannot receive funds.
func blockedAddresses() map[string]bool {
	blocked := make(map[string]bool, len(maccPerms))
	for acc := range maccPerms {
		blocked[authtypes.NewModuleAddress(acc).String()] = true
	}
	return blocked
}

func (l *Ledger) initGenesis(params *types.Params) error {
	gs := types.DefaultGenesis()
	if params != nil {
		gs.Params = *params
	} else {
		gs.Params.Denom = BaseDenom
	}

	_, err := l.commit(func(ctx sdk.Context) error {
		l.AccountKeeper.InitGenesis(ctx, *authtypes.DefaultGenesisState())
		l.BankKeeper.InitGenesis(ctx, banktypes.DefaultGenesisState())
		return l.Keeper.InitGenesis(ctx, gs)
	})
	if err != nil {
		return errors.Wrap(err, "failed to init genesis")
	}
	l.logger.Info("ledger initialized", "denom", gs.Params.Denom)
	return nil
}

// commit runs fn in a new block and persists it only when fn succeeds.
// Callers must hold l.mu or be the constructor.
func (l *Ledger) commit(fn func(ctx sdk.Context) error) (sdk.Context, error) {
	cacheMS := l.cms.CacheMultiStore()
	header := cmtproto.Header{
		ChainID: ChainID,
		Height:  l.cms.LastCommitID().Version + 1,
		Time:    l.clock().UTC(),
	}
	ctx := sdk.NewContext(cacheMS, header, false, l.logger)

	if err := fn(ctx); err != nil {
		return ctx, err
	}
	cacheMS.Write()
	l.cms.Commit()
	return ctx, nil
}

// Execute validates msg, routes it to the parametric msg server and
// commits the resulting state.
func (l *Ledger) Execute(msg types.Msg) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var resp any
	ctx, err := l.commit(func(ctx sdk.Context) error {
		var err error
		resp, err = keeper.HandleMsg(ctx, l.msgServer, msg)
		return err
	})
	if err != nil {
		l.logger.Debug("operation rejected", "type", msg.Type(), "err", err)
		return Result{}, err
	}

	return Result{
		Height:   ctx.BlockHeight(),
		Response: resp,
		Events:   ctx.EventManager().Events(),
	}, nil
}

// Query runs fn against a read-only view of the latest committed state.
func (l *Ledger) Query(fn func(ctx context.Context, qs types.QueryServer) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := sdk.NewContext(l.cms.CacheMultiStore(), cmtproto.Header{
		ChainID: ChainID,
		Height:  l.cms.LastCommitID().Version,
		Time:    l.clock().UTC(),
	}, false, l.logger)
	return fn(ctx, l.queryServer)
}

// Fund mints amt of the settlement denom into addr. It is the host-side
// faucet for simulations and tests; the parametric module never mints.
func (l *Ledger) Fund(addr string, amt sdkmath.Int) error {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidInput, "fund address: %s", err)
	}
	if !amt.IsPositive() {
		return errors.Wrapf(types.ErrInvalidInput, "fund amount %s must be positive", amt)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = l.commit(func(ctx sdk.Context) error {
		params, err := l.Keeper.GetParams(ctx)
		if err != nil {
			return err
		}
		coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amt))
		if err := l.BankKeeper.MintCoins(ctx, minttypes.ModuleName, coins); err != nil {
			return err
		}
		return l.BankKeeper.SendCoinsFromModuleToAccount(ctx, minttypes.ModuleName, acc, coins)
	})
	return err
}

// Balance returns the settlement-denom balance of addr.
func (l *Ledger) Balance(addr string) (sdkmath.Int, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidInput, "balance address: %s", err)
	}

	var amt sdkmath.Int
	err = l.Query(func(ctx context.Context, _ types.QueryServer) error {
		params, err := l.Keeper.GetParams(ctx)
		if err != nil {
			return err
		}
		amt = l.BankKeeper.GetBalance(ctx, acc, params.Denom).Amount
		return nil
	})
	return amt, err
}

// Height is the last committed block height.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cms.LastCommitID().Version
}

// Now is the block time the next operation will carry.
func (l *Ledger) Now() time.Time {
	return l.clock().UTC()
}

// ExportGenesis snapshots the parametric state.
func (l *Ledger) ExportGenesis() (*types.GenesisState, error) {
	var gs *types.GenesisState
	err := l.Query(func(ctx context.Context, _ types.QueryServer) error {
		gs = l.Keeper.ExportGenesis(ctx)
		return nil
	})
	return gs, err
}

// Close releases the backing database.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("failed to close ledger db: %w", err)
	}
	return nil
}
