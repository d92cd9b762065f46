package logic

import (
	"testing"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCreators(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorLogic(db)

	created, skipped, err := creators.SeedCreators([]string{"alice_creator", "bob_creator"})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Empty(t, skipped)

	// 占位地址等待管理接口补齐
	assert.Equal(t, model.ZeroAddress, created[0].DistributorContract)
	assert.False(t, created[0].HasDistributor())

	// 重复登记跳过已有创作者
	created, skipped, err = creators.SeedCreators([]string{"alice_creator", "carol_creator"})
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, "carol_creator", created[0].CreatorName)
	assert.Equal(t, []string{"alice_creator"}, skipped)
}

func TestSeedCreatorsRequiresNames(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorLogic(db)

	_, _, err := creators.SeedCreators(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCreatorNotFound(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorLogic(db)

	_, err := creators.GetCreator("nobody")
	assert.ErrorIs(t, err, ErrCreatorNotFound)
}

func TestUpdateWiring(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorLogic(db)

	_, _, err := creators.SeedCreators([]string{"alice_creator"})
	require.NoError(t, err)

	distributor := testDistributor
	scheme := "quadratic"
	require.NoError(t, creators.UpdateWiring("alice_creator", nil, &distributor, nil, &scheme))

	creator, err := creators.GetCreator("alice_creator")
	require.NoError(t, err)
	assert.Equal(t, testDistributor, creator.DistributorContract)
	assert.Equal(t, "quadratic", creator.Scheme)
	assert.True(t, creator.HasDistributor())

	// 未指定的字段保持不变
	assert.Equal(t, model.ZeroAddress, creator.TokenContract)
}

func TestUpdateWiringValidation(t *testing.T) {
	db := newTestDB(t)
	creators := NewCreatorLogic(db)

	_, _, err := creators.SeedCreators([]string{"alice_creator"})
	require.NoError(t, err)

	bad := "not-an-address"
	err = creators.UpdateWiring("alice_creator", nil, &bad, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = creators.UpdateWiring("alice_creator", nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	distributor := testDistributor
	err = creators.UpdateWiring("nobody", nil, &distributor, nil, nil)
	assert.ErrorIs(t, err, ErrCreatorNotFound)
}
