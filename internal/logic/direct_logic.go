package logic

import (
	"fmt"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// DirectLogic 直接分发条目业务逻辑
type DirectLogic struct {
	db *gorm.DB
}

// NewDirectLogic 创建直接分发逻辑
func NewDirectLogic(db *gorm.DB) *DirectLogic {
	return &DirectLogic{db: db}
}

// Create 创建直接分发条目，金额必须是wei整数字符串
func (d *DirectLogic) Create(creatorName, tokenContract, distributorContract string, recipients, amounts []string, totalAmount string) (*model.DirectDistributionModel, error) {
	if creatorName == "" || distributorContract == "" {
		return nil, fmt.Errorf("%w: creator name and distributor contract are required", ErrInvalidInput)
	}
	if !common.IsHexAddress(distributorContract) {
		return nil, fmt.Errorf("%w: invalid distributor contract address", ErrInvalidInput)
	}
	if len(recipients) == 0 || len(recipients) != len(amounts) {
		return nil, fmt.Errorf("%w: recipients and amounts must be non-empty and equal length", ErrInvalidInput)
	}
	for _, r := range recipients {
		if !common.IsHexAddress(r) {
			return nil, fmt.Errorf("%w: invalid recipient address %q", ErrInvalidInput, r)
		}
	}
	if _, _, err := parseWeiAmounts(amounts, totalAmount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dist := &model.DirectDistributionModel{
		CreatorName:         creatorName,
		TokenContract:       tokenContract,
		DistributorContract: common.HexToAddress(distributorContract).Hex(),
		Recipients:          recipients,
		Amounts:             amounts,
		TotalAmount:         totalAmount,
		Status:              model.DistributionStatusPending,
	}
	if err := d.db.Create(dist).Error; err != nil {
		return nil, fmt.Errorf("failed to create direct distribution for %s: %w", creatorName, err)
	}
	return dist, nil
}

// List 查询创作者的直接分发条目
func (d *DirectLogic) List(creatorName string) ([]model.DirectDistributionModel, error) {
	var dists []model.DirectDistributionModel
	query := d.db.Order("id ASC")
	if creatorName != "" {
		query = query.Where("creator_name = ?", creatorName)
	}
	if err := query.Find(&dists).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch direct distributions: %w", err)
	}
	return dists, nil
}
