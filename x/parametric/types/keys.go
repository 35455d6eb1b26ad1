package types

import (
	"cosmossdk.io/collections"
)

var (
	// ParamsKey saves the current module params.
	ParamsKey = collections.NewPrefix(0)

	// ParamsName is the name of the params collection.
	ParamsName = "params"

	// PoliciesKey saves single policies keyed by policy address.
	PoliciesKey = collections.NewPrefix(1)

	// PoliciesName is the name of the policies collection.
	PoliciesName = "policies"

	// UnderwritingsKey saves the underwriting record of each policy.
	UnderwritingsKey = collections.NewPrefix(2)

	// UnderwritingsName is the name of the underwritings collection.
	UnderwritingsName = "underwritings"

	// RiskPoolsKey saves the vault bookkeeping of each policy.
	RiskPoolsKey = collections.NewPrefix(3)

	// RiskPoolsName is the name of the risk pools collection.
	RiskPoolsName = "risk_pools"

	// ClaimsKey saves claims keyed by (policy address, oracle round).
	ClaimsKey = collections.NewPrefix(4)

	// ClaimsName is the name of the claims collection.
	ClaimsName = "claims"

	// RegistriesKey saves the policyholder registry of each policy.
	RegistriesKey = collections.NewPrefix(5)

	// RegistriesName is the name of the registries collection.
	RegistriesName = "registries"

	// MasterPoliciesKey saves master policies keyed by master address.
	MasterPoliciesKey = collections.NewPrefix(6)

	// MasterPoliciesName is the name of the master policies collection.
	MasterPoliciesName = "master_policies"

	// FlightPoliciesKey saves flight policies keyed by (master address, child id).
	FlightPoliciesKey = collections.NewPrefix(7)

	// FlightPoliciesName is the name of the flight policies collection.
	FlightPoliciesName = "flight_policies"
)

const (
	ModuleName = "parametric"

	StoreKey = ModuleName

	QuerierRoute = ModuleName
)
