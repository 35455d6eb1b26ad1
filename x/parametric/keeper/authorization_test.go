package keeper_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// outsider holds no role on any policy or master. It is encoded after
// SetupTest has installed the chain's address prefix.
func outsider() string {
	return sdk.AccAddress([]byte("outsider-address-20b")).String()
}

// snapshot captures module state, every bank balance and the event count.
func snapshot(t *testing.T, f *testFixture) (string, string, int) {
	t.Helper()
	gs, err := json.Marshal(f.k.ExportGenesis(f.ctx))
	require.NoError(t, err)
	balances, err := json.Marshal(f.bankkeeper.GetAccountsBalances(f.ctx))
	require.NoError(t, err)
	return string(gs), string(balances), len(f.ctx.EventManager().Events())
}

type authCase struct {
	name string
	// setup brings the entity to a state where authorized may run op.
	setup func(t *testing.T, f *testFixture) (op func(signer string) error, authorized string, intruders []string)
}

func policyCase(name string, prepare func(t *testing.T, p *policyFlow), op func(t *testing.T, p *policyFlow, signer string) error, authorized func(p *policyFlow) string, intruders func(p *policyFlow) []string) authCase {
	return authCase{name: name, setup: func(t *testing.T, f *testFixture) (func(string) error, string, []string) {
		p := newPolicyFlow(t, f)
		prepare(t, p)
		return func(signer string) error { return op(t, p, signer) }, authorized(p), intruders(p)
	}}
}

func masterCase(name string, prepare func(t *testing.T, m *masterFlow), op func(m *masterFlow, signer string) error) authCase {
	return authCase{name: name, setup: func(t *testing.T, f *testFixture) (func(string) error, string, []string) {
		m := newMasterFlow(t, f)
		m.activate(t)
		prepare(t, m)
		// participants and the reinsurer are not resolvers or settlers
		intruders := []string{outsider(), m.insurers[1], m.reinsurer}
		return func(signer string) error { return op(m, signer) }, m.leader, intruders
	}}
}

func claimable(t *testing.T, p *policyFlow) {
	p.fundAll(t)
	p.activate(t)
	_, err := p.f.msgServer.CheckOracle(p.f.ctx, p.observe(1, 130, false))
	require.NoError(t, err)
}

func leader(p *policyFlow) string { return p.leader }

func nonLeaders(p *policyFlow) []string { return []string{outsider(), p.insurers[1]} }

func TestAuthorization_RejectsWrongSigner(t *testing.T) {
	cases := []authCase{
		policyCase("open underwriting",
			func(t *testing.T, p *policyFlow) {},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.OpenUnderwriting(p.f.ctx, &types.MsgOpenUnderwriting{Leader: signer, Policy: p.policy})
				return err
			}, leader, nonLeaders),
		policyCase("accept share",
			func(t *testing.T, p *policyFlow) {
				p.open(t)
				p.f.fund(t, outsider(), 700_000)
				p.f.fund(t, p.insurers[0], 700_000)
			},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.AcceptShare(p.f.ctx, &types.MsgAcceptShare{
					Signer: signer, Policy: p.policy, Index: 0, DepositAmount: p.required(t, 0),
				})
				return err
			},
			func(p *policyFlow) string { return p.insurers[0] },
			func(p *policyFlow) []string { return []string{outsider(), p.insurers[1]} }),
		policyCase("reject share",
			func(t *testing.T, p *policyFlow) { p.open(t) },
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.RejectShare(p.f.ctx, &types.MsgRejectShare{Signer: signer, Policy: p.policy, Index: 1})
				return err
			},
			func(p *policyFlow) string { return p.insurers[1] },
			func(p *policyFlow) []string { return []string{outsider(), p.leader} }),
		policyCase("activate policy",
			func(t *testing.T, p *policyFlow) {
				p.fundAll(t)
				p.f.advance(time.Hour)
			},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.ActivatePolicy(p.f.ctx, &types.MsgActivatePolicy{Leader: signer, Policy: p.policy})
				return err
			}, leader, nonLeaders),
		policyCase("approve claim",
			claimable,
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.ApproveClaim(p.f.ctx, &types.MsgApproveClaim{Signer: signer, Policy: p.policy, OracleRound: 1})
				return err
			}, leader, nonLeaders),
		policyCase("settle claim",
			func(t *testing.T, p *policyFlow) {
				claimable(t, p)
				_, err := p.f.msgServer.ApproveClaim(p.f.ctx, &types.MsgApproveClaim{Signer: p.leader, Policy: p.policy, OracleRound: 1})
				require.NoError(t, err)
			},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.SettleClaim(p.f.ctx, &types.MsgSettleClaim{
					Signer: signer, Policy: p.policy, OracleRound: 1, Beneficiary: p.f.addrs[5].String(),
				})
				return err
			}, leader, nonLeaders),
		policyCase("refund share",
			func(t *testing.T, p *policyFlow) {
				p.fundAll(t)
				p.activate(t)
				p.f.advance(24 * time.Hour)
				_, err := p.f.msgServer.ExpirePolicy(p.f.ctx, &types.MsgExpirePolicy{Signer: outsider(), Policy: p.policy})
				require.NoError(t, err)
			},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.RefundShare(p.f.ctx, &types.MsgRefundShare{Signer: signer, Policy: p.policy, Index: 0})
				return err
			},
			func(p *policyFlow) string { return p.insurers[0] },
			func(p *policyFlow) []string { return []string{outsider(), p.insurers[1]} }),
		policyCase("register policyholder",
			func(t *testing.T, p *policyFlow) {},
			func(t *testing.T, p *policyFlow, signer string) error {
				_, err := p.f.msgServer.RegisterPolicyholder(p.f.ctx, &types.MsgRegisterPolicyholder{
					Leader: signer, Policy: p.policy, Entry: types.PolicyholderEntry{
						ExternalRef:    "PNR-0001",
						FlightNo:       "KE701",
						DepartureDate:  "2026-01-02",
						PassengerCount: 1,
						PremiumPaid:    sdkmath.NewInt(10_000),
						CoverageAmount: sdkmath.NewInt(400_000),
					},
				})
				return err
			}, leader, nonLeaders),
		masterCase("resolve flight delay",
			func(t *testing.T, m *masterFlow) { m.issue(t, 1) },
			func(m *masterFlow, signer string) error {
				_, err := m.f.msgServer.ResolveFlightDelay(m.f.ctx, &types.MsgResolveFlightDelay{
					Signer: signer, Master: m.res.Master, ChildId: 1, DelayMinutes: 130,
				})
				return err
			}),
		masterCase("settle flight claim",
			func(t *testing.T, m *masterFlow) {
				m.fundPools(t)
				m.issue(t, 1)
				_, err := m.resolve(t, 1, 130, false)
				require.NoError(t, err)
			},
			func(m *masterFlow, signer string) error {
				_, err := m.f.msgServer.SettleFlightClaim(m.f.ctx, &types.MsgSettleFlightClaim{Signer: signer, Master: m.res.Master, ChildId: 1})
				return err
			}),
		masterCase("settle flight no claim",
			func(t *testing.T, m *masterFlow) {
				m.issue(t, 1)
				_, err := m.resolve(t, 1, 30, false)
				require.NoError(t, err)
			},
			func(m *masterFlow, signer string) error {
				_, err := m.f.msgServer.SettleFlightNoClaim(m.f.ctx, &types.MsgSettleFlightNoClaim{Signer: signer, Master: m.res.Master, ChildId: 1})
				return err
			}),
		masterCase("close master",
			func(t *testing.T, m *masterFlow) { m.f.advance(8 * 24 * time.Hour) },
			func(m *masterFlow, signer string) error {
				_, err := m.f.msgServer.CloseMaster(m.f.ctx, &types.MsgCloseMaster{Signer: signer, Master: m.res.Master})
				return err
			}),
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := SetupTest(t)
			op, authorized, intruders := tc.setup(t, f)

			state, balances, events := snapshot(t, f)
			for _, signer := range intruders {
				err := op(signer)
				require.ErrorIs(t, err, types.ErrUnauthorized, "signer %s", signer)
				require.Equal(t, types.KindAuthorization, types.KindOf(err))

				gotState, gotBalances, gotEvents := snapshot(t, f)
				require.JSONEq(t, state, gotState)
				require.JSONEq(t, balances, gotBalances)
				require.Equal(t, events, gotEvents)
			}

			require.NoError(t, op(authorized))
		})
	}
}
