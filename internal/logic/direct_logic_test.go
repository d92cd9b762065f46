package logic

import (
	"testing"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectCreate(t *testing.T) {
	db := newTestDB(t)
	direct := NewDirectLogic(db)

	dist, err := direct.Create("alice_creator", "", testDistributor,
		[]string{walletAlice, walletBob}, []string{"1000", "2000"}, "3000")
	require.NoError(t, err)

	assert.Equal(t, model.DistributionStatusPending, dist.Status)
	assert.Equal(t, testDistributor, dist.DistributorContract)
	assert.Equal(t, model.StringList{"1000", "2000"}, dist.Amounts)
}

func TestDirectCreateValidation(t *testing.T) {
	db := newTestDB(t)
	direct := NewDirectLogic(db)

	_, err := direct.Create("", "", testDistributor, []string{walletAlice}, []string{"1000"}, "1000")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = direct.Create("alice_creator", "", "not-an-address", []string{walletAlice}, []string{"1000"}, "1000")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = direct.Create("alice_creator", "", testDistributor, []string{walletAlice}, []string{"1000", "2000"}, "3000")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = direct.Create("alice_creator", "", testDistributor, []string{"bad"}, []string{"1000"}, "1000")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 金额必须是十进制wei整数
	_, err = direct.Create("alice_creator", "", testDistributor, []string{walletAlice}, []string{"1.5"}, "1.5")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDirectList(t *testing.T) {
	db := newTestDB(t)
	direct := NewDirectLogic(db)

	_, err := direct.Create("alice_creator", "", testDistributor, []string{walletAlice}, []string{"1000"}, "1000")
	require.NoError(t, err)
	_, err = direct.Create("bob_creator", "", testDistributor, []string{walletBob}, []string{"2000"}, "2000")
	require.NoError(t, err)

	all, err := direct.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	alice, err := direct.List("alice_creator")
	require.NoError(t, err)
	require.Len(t, alice, 1)
	assert.Equal(t, "alice_creator", alice[0].CreatorName)
}
