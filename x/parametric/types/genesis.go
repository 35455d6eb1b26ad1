package types

import (
	"fmt"
)

// GenesisState is the full exported state of the module.
type GenesisState struct {
	Params         Params                 `json:"params"`
	Policies       []Policy               `json:"policies"`
	Underwritings  []Underwriting         `json:"underwritings"`
	RiskPools      []RiskPool             `json:"risk_pools"`
	Claims         []Claim                `json:"claims"`
	Registries     []PolicyholderRegistry `json:"registries"`
	MasterPolicies []MasterPolicy         `json:"master_policies"`
	FlightPolicies []FlightPolicy         `json:"flight_policies"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Params.ValidateBasic(); err != nil {
		return err
	}

	policies := make(map[string]Policy, len(gs.Policies))
	for _, p := range gs.Policies {
		if _, dup := policies[p.Address]; dup {
			return fmt.Errorf("duplicate policy %s", p.Address)
		}
		policies[p.Address] = p
	}
	for _, u := range gs.Underwritings {
		if _, ok := policies[u.Policy]; !ok {
			return fmt.Errorf("underwriting %s references unknown policy %s", u.Address, u.Policy)
		}
		if u.Status == UnderwritingStatusFinalized && !u.IsFullyFunded() {
			return fmt.Errorf("underwriting %s is finalized but not fully funded", u.Address)
		}
	}
	for _, c := range gs.Claims {
		if _, ok := policies[c.Policy]; !ok {
			return fmt.Errorf("claim %s references unknown policy %s", c.Address, c.Policy)
		}
	}

	masters := make(map[string]struct{}, len(gs.MasterPolicies))
	for _, m := range gs.MasterPolicies {
		if _, dup := masters[m.Address]; dup {
			return fmt.Errorf("duplicate master policy %s", m.Address)
		}
		if err := ValidateShares(m.ShareBps()); err != nil {
			return fmt.Errorf("master policy %s: %w", m.Address, err)
		}
		masters[m.Address] = struct{}{}
	}
	for _, f := range gs.FlightPolicies {
		if _, ok := masters[f.Master]; !ok {
			return fmt.Errorf("flight policy %s references unknown master %s", f.Address, f.Master)
		}
	}
	return nil
}
