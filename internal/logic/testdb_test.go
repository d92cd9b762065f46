package logic

import (
	"testing"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// 测试用的钱包地址（EIP-55校验和格式）
const (
	walletAlice = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	walletBob   = "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"
	walletCarol = "0x6813Eb9362372EEF6200f3b1dbC3f819671cBA69"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.CreatorModel{},
		&model.UserModel{},
		&model.SupportRecordModel{},
		&model.AttentionRecordModel{},
		&model.DistributionEntryModel{},
		&model.DirectDistributionModel{},
	))

	return db
}

func seedCreator(t *testing.T, db *gorm.DB, name, distributorContract string) *model.CreatorModel {
	t.Helper()

	creator := &model.CreatorModel{
		CreatorName:         name,
		TokenContract:       "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		DistributorContract: distributorContract,
		WalletAddress:       walletAlice,
	}
	require.NoError(t, db.Create(creator).Error)
	return creator
}

func seedUser(t *testing.T, db *gorm.DB, username, wallet string) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserModel{Username: username, WalletAddress: wallet}).Error)
}

func seedRecord(t *testing.T, db *gorm.DB, creatorName string, windowStart int64, entries model.SupportEntryList) *model.SupportRecordModel {
	t.Helper()

	record := &model.SupportRecordModel{
		CreatorName: creatorName,
		WindowStart: windowStart,
		Granularity: model.GranularitySixHour,
		Entries:     entries,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}
