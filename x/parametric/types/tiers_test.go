package types_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

func testTiers() types.PayoutTiers {
	return types.PayoutTiers{
		Tier1: sdkmath.NewInt(40_000_000),
		Tier2: sdkmath.NewInt(60_000_000),
		Tier3: sdkmath.NewInt(80_000_000),
		Tier4: sdkmath.NewInt(100_000_000),
	}
}

func TestPayoutTiers_Payout(t *testing.T) {
	tiers := testTiers()

	tests := []struct {
		delay     int64
		cancelled bool
		want      sdkmath.Int
	}{
		{110, false, sdkmath.ZeroInt()},
		{119, false, sdkmath.ZeroInt()},
		{120, false, tiers.Tier1},
		{130, false, tiers.Tier1},
		{180, false, tiers.Tier2},
		{210, false, tiers.Tier2},
		{250, false, tiers.Tier3},
		{359, false, tiers.Tier3},
		{360, false, tiers.Tier4},
		{380, false, tiers.Tier4},
		{30, true, tiers.Tier4},
		{0, true, tiers.Tier4},
	}
	for _, tc := range tests {
		got := tiers.Payout(tc.delay, tc.cancelled)
		require.True(t, tc.want.Equal(got), "delay=%d cancelled=%t: want %s got %s", tc.delay, tc.cancelled, tc.want, got)
	}
}

func TestPayoutTiers_Monotonic(t *testing.T) {
	tiers := testTiers()
	prev := sdkmath.ZeroInt()
	for d := int64(0); d <= 600; d += 10 {
		got := tiers.Payout(d, false)
		require.True(t, got.GTE(prev), "payout dropped at %d minutes", d)
		require.True(t, tiers.Payout(d, true).Equal(tiers.Max()))
		prev = got
	}
}

func TestPayoutTiers_Validate(t *testing.T) {
	require.NoError(t, testTiers().Validate())

	bad := testTiers()
	bad.Tier2 = sdkmath.NewInt(1)
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidPayout)

	unset := types.PayoutTiers{Tier4: sdkmath.NewInt(1)}
	require.ErrorIs(t, unset.Validate(), types.ErrInvalidPayout)

	zero := types.PayoutTiers{Tier1: sdkmath.ZeroInt(), Tier2: sdkmath.ZeroInt(), Tier3: sdkmath.ZeroInt(), Tier4: sdkmath.ZeroInt()}
	require.ErrorIs(t, zero.Validate(), types.ErrInvalidPayout)
}
