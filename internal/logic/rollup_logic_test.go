package logic

import (
	"testing"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dayStart = int64(1741564800) // 2025-03-10 00:00:00 UTC
	dayEnd   = dayStart + 86400
)

func TestRollupAccumulatesAcrossRecords(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	// 同一个钱包在四个窗口都拿满100%
	for i := int64(0); i < 4; i++ {
		seedRecord(t, db, "alice_creator", dayStart+i*21600, model.SupportEntryList{
			{Username: "alice", WalletAddress: walletAlice, Percent: 100},
		})
	}

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{walletAlice}, result.Recipients)
	assert.InDelta(t, 40.0, result.Amounts[0], 1e-9)
	assert.InDelta(t, 40.0, result.Total, 1e-9)
	assert.Len(t, result.Records, 4)
}

func TestRollupSplitsByPercent(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	seedRecord(t, db, "alice_creator", dayStart, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 60},
		{Username: "bob", WalletAddress: walletBob, Percent: 40},
	})

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{walletAlice, walletBob}, result.Recipients)
	assert.InDelta(t, 6.0, result.Amounts[0], 1e-9)
	assert.InDelta(t, 4.0, result.Amounts[1], 1e-9)
	assert.InDelta(t, 10.0, result.Total, 1e-9)
}

func TestRollupWindowIsHalfOpen(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	// 起始边界属于本窗口，结束边界属于下一个窗口
	seedRecord(t, db, "alice_creator", dayStart, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})
	seedRecord(t, db, "alice_creator", dayEnd-1, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})
	seedRecord(t, db, "alice_creator", dayEnd, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.InDelta(t, 20.0, result.Total, 1e-9)
}

func TestRollupIgnoresOtherCreators(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	seedRecord(t, db, "alice_creator", dayStart, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})
	seedRecord(t, db, "bob_creator", dayStart, model.SupportEntryList{
		{Username: "bob", WalletAddress: walletBob, Percent: 100},
	})

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{walletAlice}, result.Recipients)
	assert.Len(t, result.Records, 1)
}

func TestRollupRecipientOrderIsFirstAppearance(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	seedRecord(t, db, "alice_creator", dayStart, model.SupportEntryList{
		{Username: "bob", WalletAddress: walletBob, Percent: 50},
		{Username: "alice", WalletAddress: walletAlice, Percent: 50},
	})
	seedRecord(t, db, "alice_creator", dayStart+21600, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 30},
		{Username: "carol", WalletAddress: walletCarol, Percent: 70},
	})

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{walletBob, walletAlice, walletCarol}, result.Recipients)

	// 重复汇总必须产生完全相同的顺序和数量
	again, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	require.NoError(t, err)
	assert.Equal(t, result.Recipients, again.Recipients)
	assert.Equal(t, result.Amounts, again.Amounts)
}

func TestRollupNoRecordsInWindow(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	seedRecord(t, db, "alice_creator", dayEnd+100, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})

	_, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 10)
	assert.ErrorIs(t, err, ErrNoDataForWindow)
}

func TestRollupRejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	_, err := rollup.Rollup("", dayStart, dayEnd, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = rollup.Rollup("alice_creator", dayEnd, dayStart, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = rollup.Rollup("alice_creator", dayStart, dayEnd, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRollupZeroDripRateYieldsZeroAmounts(t *testing.T) {
	db := newTestDB(t)
	rollup := NewRollupLogic(db)

	seedRecord(t, db, "alice_creator", dayStart, model.SupportEntryList{
		{Username: "alice", WalletAddress: walletAlice, Percent: 100},
	})

	result, err := rollup.Rollup("alice_creator", dayStart, dayEnd, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Total)
}
