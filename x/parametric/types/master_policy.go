package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

type MasterStatus string

const (
	MasterStatusDraft          MasterStatus = "Draft"
	MasterStatusPendingConfirm MasterStatus = "PendingConfirm"
	MasterStatusActive         MasterStatus = "Active"
	MasterStatusClosed         MasterStatus = "Closed"
	MasterStatusCancelled      MasterStatus = "Cancelled"
)

// ConfirmRole selects which party a confirmation is made as.
type ConfirmRole string

const (
	ConfirmRoleParticipant ConfirmRole = "participant"
	ConfirmRoleReinsurer   ConfirmRole = "reinsurer"
)

type MasterParticipant struct {
	Insurer       string `json:"insurer"`
	ShareBps      uint32 `json:"share_bps"`
	Confirmed     bool   `json:"confirmed"`
	PoolWallet    string `json:"pool_wallet,omitempty"`
	DepositWallet string `json:"deposit_wallet,omitempty"`
}

// HasWallets reports whether both wallets are registered.
func (p MasterParticipant) HasWallets() bool {
	return p.PoolWallet != "" && p.DepositWallet != ""
}

// MasterPolicy is a batch contract under which flight policies are issued.
type MasterPolicy struct {
	Address                string              `json:"address"`
	MasterId               uint64              `json:"master_id"`
	Leader                 string              `json:"leader"`
	Operator               string              `json:"operator"`
	Reinsurer              string              `json:"reinsurer"`
	CoverageStart          int64               `json:"coverage_start"`
	CoverageEnd            int64               `json:"coverage_end"`
	PremiumPerPolicy       sdkmath.Int         `json:"premium_per_policy"`
	PayoutTiers            PayoutTiers         `json:"payout_tiers"`
	CededRatioBps          uint32              `json:"ceded_ratio_bps"`
	ReinsCommissionBps     uint32              `json:"reins_commission_bps"`
	ReinsurerEffectiveBps  uint32              `json:"reinsurer_effective_bps"`
	Participants           []MasterParticipant `json:"participants"`
	ReinsurerConfirmed     bool                `json:"reinsurer_confirmed"`
	ReinsurerPoolWallet    string              `json:"reinsurer_pool_wallet"`
	ReinsurerDepositWallet string              `json:"reinsurer_deposit_wallet"`
	LeaderDepositWallet    string              `json:"leader_deposit_wallet"`
	Status                 MasterStatus        `json:"status"`
	CreatedAt              int64               `json:"created_at"`
}

func (m MasterPolicy) IsLeaderOrOperator(addr string) bool {
	return addr == m.Leader || (m.Operator != "" && addr == m.Operator)
}

// ParticipantIndex returns the index of insurer, or -1.
func (m MasterPolicy) ParticipantIndex(insurer string) int {
	for i, p := range m.Participants {
		if p.Insurer == insurer {
			return i
		}
	}
	return -1
}

func (m MasterPolicy) ShareBps() []uint32 {
	out := make([]uint32, len(m.Participants))
	for i, p := range m.Participants {
		out[i] = p.ShareBps
	}
	return out
}

// ReadyToActivate reports whether every party confirmed and registered wallets.
func (m MasterPolicy) ReadyToActivate() bool {
	if !m.ReinsurerConfirmed || m.ReinsurerPoolWallet == "" || m.ReinsurerDepositWallet == "" {
		return false
	}
	for _, p := range m.Participants {
		if !p.Confirmed || !p.HasWallets() {
			return false
		}
	}
	return true
}

func (m MasterPolicy) String() string {
	return fmt.Sprintf("MasterPolicy %s | id=%d | leader=%s | status=%s | reinsurer_bps=%d",
		m.Address, m.MasterId, m.Leader, m.Status, m.ReinsurerEffectiveBps)
}
