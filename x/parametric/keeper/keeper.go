package keeper

import (
	"context"

	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"cosmossdk.io/collections"
	storetypes "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

type Keeper struct {
	logger log.Logger

	// state management
	Params         collections.Item[types.Params]
	Policies       collections.Map[string, types.Policy]
	Underwritings  collections.Map[string, types.Underwriting]
	RiskPools      collections.Map[string, types.RiskPool]
	Claims         collections.Map[collections.Pair[string, uint64], types.Claim]
	Registries     collections.Map[string, types.PolicyholderRegistry]
	MasterPolicies collections.Map[string, types.MasterPolicy]
	FlightPolicies collections.Map[collections.Pair[string, uint64], types.FlightPolicy]

	// keepers
	bankKeeper types.BankKeeper

	authority string
}

// NewKeeper creates a new Keeper instance
func NewKeeper(
	storeService storetypes.KVStoreService,
	logger log.Logger,
	authority string,
	bankKeeper types.BankKeeper,
) Keeper {
	logger = logger.With(log.ModuleKey, "x/"+types.ModuleName)

	sb := collections.NewSchemaBuilder(storeService)

	if authority == "" {
		authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()
	}

	k := Keeper{
		logger: logger,

		Params:         collections.NewItem(sb, types.ParamsKey, types.ParamsName, types.JSONValue[types.Params]()),
		Policies:       collections.NewMap(sb, types.PoliciesKey, types.PoliciesName, collections.StringKey, types.JSONValue[types.Policy]()),
		Underwritings:  collections.NewMap(sb, types.UnderwritingsKey, types.UnderwritingsName, collections.StringKey, types.JSONValue[types.Underwriting]()),
		RiskPools:      collections.NewMap(sb, types.RiskPoolsKey, types.RiskPoolsName, collections.StringKey, types.JSONValue[types.RiskPool]()),
		Claims:         collections.NewMap(sb, types.ClaimsKey, types.ClaimsName, collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.JSONValue[types.Claim]()),
		Registries:     collections.NewMap(sb, types.RegistriesKey, types.RegistriesName, collections.StringKey, types.JSONValue[types.PolicyholderRegistry]()),
		MasterPolicies: collections.NewMap(sb, types.MasterPoliciesKey, types.MasterPoliciesName, collections.StringKey, types.JSONValue[types.MasterPolicy]()),
		FlightPolicies: collections.NewMap(sb, types.FlightPoliciesKey, types.FlightPoliciesName, collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), types.JSONValue[types.FlightPolicy]()),

		bankKeeper: bankKeeper,
		authority:  authority,
	}

	if _, err := sb.Build(); err != nil {
		panic(err)
	}

	return k
}

func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the address allowed to update params.
func (k Keeper) GetAuthority() string {
	return k.authority
}

func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	return k.Params.Get(ctx)
}

// UpdateParams validates and stores new params.
func (k Keeper) UpdateParams(ctx context.Context, params types.Params) error {
	if err := params.ValidateBasic(); err != nil {
		return err
	}
	return k.Params.Set(ctx, params)
}
