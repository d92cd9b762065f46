package logic

import (
	"errors"
	"fmt"

	"github.com/Attenomics-Labs/attenomics-agent/internal/logger"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// CreatorLogic 创作者业务逻辑
type CreatorLogic struct {
	db *gorm.DB
}

// NewCreatorLogic 创建创作者业务逻辑
func NewCreatorLogic(db *gorm.DB) *CreatorLogic {
	return &CreatorLogic{db: db}
}

// SeedCreators 批量登记创作者，合约地址先用占位地址，后续由管理接口补齐。
// 已存在的创作者跳过，不影响其他创作者的登记。
func (c *CreatorLogic) SeedCreators(creatorNames []string) ([]model.CreatorModel, []string, error) {
	if len(creatorNames) == 0 {
		return nil, nil, fmt.Errorf("%w: creator names are required", ErrInvalidInput)
	}

	var created []model.CreatorModel
	var skipped []string

	for _, name := range creatorNames {
		if name == "" {
			skipped = append(skipped, "(empty name)")
			continue
		}

		var existing model.CreatorModel
		err := c.db.Where("creator_name = ?", name).First(&existing).Error
		if err == nil {
			logger.Info("Creator %s already exists, skipping", name)
			skipped = append(skipped, name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to check creator %s: %w", name, err)
		}

		creator := model.CreatorModel{
			CreatorName:         name,
			TokenContract:       model.ZeroAddress,
			DistributorContract: model.ZeroAddress,
			WalletAddress:       model.ZeroAddress,
			Scheme:              "default",
		}
		if err := c.db.Create(&creator).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create creator %s: %w", name, err)
		}
		created = append(created, creator)
	}

	return created, skipped, nil
}

// GetCreators 获取所有创作者
func (c *CreatorLogic) GetCreators() ([]model.CreatorModel, error) {
	var creators []model.CreatorModel
	if err := c.db.Find(&creators).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}
	return creators, nil
}

// GetCreator 获取单个创作者
func (c *CreatorLogic) GetCreator(name string) (*model.CreatorModel, error) {
	var creator model.CreatorModel
	err := c.db.Where("creator_name = ?", name).First(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCreatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creator %s: %w", name, err)
	}
	return &creator, nil
}

// UpdateWiring 管理接口：更新创作者的链上信息
func (c *CreatorLogic) UpdateWiring(name string, tokenContract, distributorContract, walletAddress, scheme *string) error {
	creator, err := c.GetCreator(name)
	if err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if tokenContract != nil {
		if !common.IsHexAddress(*tokenContract) {
			return fmt.Errorf("%w: invalid token contract address", ErrInvalidInput)
		}
		updates["token_contract"] = common.HexToAddress(*tokenContract).Hex()
	}
	if distributorContract != nil {
		if !common.IsHexAddress(*distributorContract) {
			return fmt.Errorf("%w: invalid distributor contract address", ErrInvalidInput)
		}
		updates["distributor_contract"] = common.HexToAddress(*distributorContract).Hex()
	}
	if walletAddress != nil {
		if !common.IsHexAddress(*walletAddress) {
			return fmt.Errorf("%w: invalid wallet address", ErrInvalidInput)
		}
		updates["wallet_address"] = common.HexToAddress(*walletAddress).Hex()
	}
	if scheme != nil {
		updates["scheme"] = *scheme
	}

	if len(updates) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := c.db.Model(creator).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update creator %s: %w", name, err)
	}
	return nil
}
