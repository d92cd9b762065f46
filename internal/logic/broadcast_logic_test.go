package logic

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDistributor 可控的分发合约替身
type fakeDistributor struct {
	dripRate float64
	dripErr  error

	txHash        string
	submitErr     error
	signatureCall int
	directCall    int

	lastEncoded    []byte
	lastSignature  []byte
	lastRecipients []string
	lastAmounts    []*big.Int
	lastTotal      *big.Int
	lastContract   string
}

func (f *fakeDistributor) DripRate(ctx context.Context, contractAddr string) (float64, error) {
	if f.dripErr != nil {
		return 0, f.dripErr
	}
	return f.dripRate, nil
}

func (f *fakeDistributor) Distribute(ctx context.Context, contractAddr string, recipients []string, amounts []*big.Int, total *big.Int) (string, error) {
	f.directCall++
	f.lastContract = contractAddr
	f.lastRecipients = recipients
	f.lastAmounts = amounts
	f.lastTotal = total
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.txHash, nil
}

func (f *fakeDistributor) DistributeWithData(ctx context.Context, contractAddr string, encoded []byte, signature []byte) (string, error) {
	f.signatureCall++
	f.lastContract = contractAddr
	f.lastEncoded = encoded
	f.lastSignature = signature
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.txHash, nil
}

func seedPendingEntry(t *testing.T, ledger *LedgerLogic, creatorName string, windowStart int64) *model.DistributionEntryModel {
	t.Helper()

	entry := newLedgerEntry(creatorName, windowStart)
	entry.EncodedData = "0xdeadbeef"
	entry.SignedHash = "0x0102"

	created, err := ledger.CreateEntryIfAbsent(entry)
	require.NoError(t, err)
	require.NotNil(t, created)
	return created
}

func TestBroadcastPendingViaSignature(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerLogic(db)
	sink := &fakeDistributor{txHash: "0xabc123"}
	broadcast := NewBroadcastLogic(db, sink)

	seedPendingEntry(t, ledger, "alice_creator", dayStart)

	batchId, outcomes, err := broadcast.BroadcastPending(context.Background(), model.MethodSignature)
	require.NoError(t, err)
	assert.NotEmpty(t, batchId)
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, "0xabc123", outcomes[0].TxHash)

	// 广播走signature路径，载荷和签名从条目解码后原样传给合约
	assert.Equal(t, 1, sink.signatureCall)
	assert.Equal(t, 0, sink.directCall)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, sink.lastEncoded)
	assert.Equal(t, []byte{0x01, 0x02}, sink.lastSignature)

	stored, err := ledger.GetEntry("alice_creator", dayStart)
	require.NoError(t, err)
	assert.Equal(t, model.DistributionStatusBroadcasted, stored.Status)
	assert.Equal(t, "0xabc123", stored.TxHash)
	assert.Equal(t, model.MethodSignature, stored.Method)
}

func TestBroadcastPendingViaDirect(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerLogic(db)
	sink := &fakeDistributor{txHash: "0xabc123"}
	broadcast := NewBroadcastLogic(db, sink)

	seedPendingEntry(t, ledger, "alice_creator", dayStart)

	_, outcomes, err := broadcast.BroadcastPending(context.Background(), model.MethodDirect)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeSuccess, outcomes[0].Status)

	assert.Equal(t, 1, sink.directCall)
	assert.Equal(t, []string{walletAlice}, sink.lastRecipients)
	require.Len(t, sink.lastAmounts, 1)
	assert.Equal(t, "40000000000000000000", sink.lastAmounts[0].String())
	assert.Equal(t, "40000000000000000000", sink.lastTotal.String())
}

func TestBroadcastFailureLeavesEntryPending(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerLogic(db)
	sink := &fakeDistributor{submitErr: errors.New("rpc unavailable")}
	broadcast := NewBroadcastLogic(db, sink)

	seedPendingEntry(t, ledger, "alice_creator", dayStart)

	_, outcomes, err := broadcast.BroadcastPending(context.Background(), model.MethodSignature)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeFailed, outcomes[0].Status)

	// 失败的条目保持pending，等待下一批重试
	stored, err := ledger.GetEntry("alice_creator", dayStart)
	require.NoError(t, err)
	assert.Equal(t, model.DistributionStatusPending, stored.Status)
	assert.Empty(t, stored.TxHash)

	// 故障恢复后重试同一条目成功
	sink.submitErr = nil
	sink.txHash = "0xretry"

	_, outcomes, err = broadcast.BroadcastPending(context.Background(), model.MethodSignature)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeSuccess, outcomes[0].Status)

	stored, err = ledger.GetEntry("alice_creator", dayStart)
	require.NoError(t, err)
	assert.Equal(t, model.DistributionStatusBroadcasted, stored.Status)
	assert.Equal(t, "0xretry", stored.TxHash)
}

func TestBroadcastSkipsAlreadyBroadcasted(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerLogic(db)
	sink := &fakeDistributor{txHash: "0xabc123"}
	broadcast := NewBroadcastLogic(db, sink)

	entry := seedPendingEntry(t, ledger, "alice_creator", dayStart)
	require.NoError(t, ledger.MarkBroadcasted(entry.Id, "0xdone", model.MethodSignature))

	_, outcomes, err := broadcast.BroadcastPending(context.Background(), model.MethodSignature)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, 0, sink.signatureCall)
	assert.Equal(t, 0, sink.directCall)
}

func TestBroadcastContinuesAfterEntryFailure(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerLogic(db)
	sink := &fakeDistributor{txHash: "0xabc123"}
	broadcast := NewBroadcastLogic(db, sink)

	bad := seedPendingEntry(t, ledger, "alice_creator", dayStart)
	bad.EncodedData = "not-hex"
	require.NoError(t, db.Save(bad).Error)
	seedPendingEntry(t, ledger, "bob_creator", dayStart)

	_, outcomes, err := broadcast.BroadcastPending(context.Background(), model.MethodSignature)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, OutcomeFailed, outcomes[0].Status)
	assert.Equal(t, "alice_creator", outcomes[0].CreatorName)
	assert.Equal(t, OutcomeSuccess, outcomes[1].Status)
	assert.Equal(t, "bob_creator", outcomes[1].CreatorName)
}

func TestBroadcastRejectsUnknownMethod(t *testing.T) {
	db := newTestDB(t)
	broadcast := NewBroadcastLogic(db, &fakeDistributor{})

	_, _, err := broadcast.BroadcastPending(context.Background(), "carrier-pigeon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBroadcastDirectDistributions(t *testing.T) {
	db := newTestDB(t)
	sink := &fakeDistributor{txHash: "0xdirect"}
	broadcast := NewBroadcastLogic(db, sink)

	require.NoError(t, db.Create(&model.DirectDistributionModel{
		CreatorName:         "alice_creator",
		DistributorContract: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Recipients:          model.StringList{walletAlice, walletBob},
		Amounts:             model.StringList{"1000", "2000"},
		TotalAmount:         "3000",
	}).Error)

	outcomes, err := broadcast.BroadcastDirect(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, "0xdirect", outcomes[0].TxHash)
	assert.Equal(t, "3000", sink.lastTotal.String())

	var stored model.DirectDistributionModel
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, model.DistributionStatusBroadcasted, stored.Status)
	assert.Equal(t, "0xdirect", stored.TxHash)

	// 已广播的直接分发不会再次提交
	outcomes, err = broadcast.BroadcastDirect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, 1, sink.directCall)
}
