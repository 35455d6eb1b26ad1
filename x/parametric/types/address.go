package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// Derivation seeds. Every account the module controls is an
// address.Module derivation over one of these seeds plus its parent, so
// clients can recompute them offline.
var (
	policySeed        = []byte("policy")
	underwritingSeed  = []byte("underwriting")
	poolSeed          = []byte("pool")
	vaultSeed         = []byte("vault")
	registrySeed      = []byte("registry")
	claimSeed         = []byte("claim")
	masterPolicySeed  = []byte("master_policy")
	flightPolicySeed  = []byte("flight_policy")
	poolWalletSeed    = []byte("pool_wallet")
	reinsurerPoolSeed = []byte("reinsurer_pool")
	leaderDepositSeed = []byte("leader_deposit")
)

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func derive(keys ...[]byte) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, keys...))
}

// PolicyAddress derives the policy account from its leader and id.
func PolicyAddress(leader sdk.AccAddress, policyID uint64) sdk.AccAddress {
	return derive(policySeed, leader, uint64Bytes(policyID))
}

func UnderwritingAddress(policy sdk.AccAddress) sdk.AccAddress {
	return derive(underwritingSeed, policy)
}

func PoolAddress(policy sdk.AccAddress) sdk.AccAddress {
	return derive(poolSeed, policy)
}

// VaultAddress holds the escrowed collateral of a policy.
func VaultAddress(policy sdk.AccAddress) sdk.AccAddress {
	return derive(vaultSeed, policy)
}

func RegistryAddress(policy sdk.AccAddress) sdk.AccAddress {
	return derive(registrySeed, policy)
}

func ClaimAddress(policy sdk.AccAddress, oracleRound uint64) sdk.AccAddress {
	return derive(claimSeed, policy, uint64Bytes(oracleRound))
}

// MasterPolicyAddress derives a master policy from its leader and id.
func MasterPolicyAddress(leader sdk.AccAddress, masterID uint64) sdk.AccAddress {
	return derive(masterPolicySeed, leader, uint64Bytes(masterID))
}

func FlightPolicyAddress(master sdk.AccAddress, childID uint64) sdk.AccAddress {
	return derive(flightPolicySeed, master, uint64Bytes(childID))
}

// MasterPoolWalletAddress is the pre-funded claim pool of one insurer under a master.
func MasterPoolWalletAddress(master, insurer sdk.AccAddress) sdk.AccAddress {
	return derive(poolWalletSeed, master, insurer)
}

// ReinsurerPoolWalletAddress is the pre-funded claim pool of the reinsurer.
func ReinsurerPoolWalletAddress(master sdk.AccAddress) sdk.AccAddress {
	return derive(reinsurerPoolSeed, master)
}

// LeaderDepositWalletAddress collects child premiums and claim reimbursements.
func LeaderDepositWalletAddress(master sdk.AccAddress) sdk.AccAddress {
	return derive(leaderDepositSeed, master)
}
