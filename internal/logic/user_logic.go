package logic

import (
	"errors"
	"fmt"

	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// UserLogic 注册用户业务逻辑（身份注册表）
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// RegisterUser 注册用户
func (u *UserLogic) RegisterUser(username, walletAddress string) (*model.UserModel, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !common.IsHexAddress(walletAddress) {
		return nil, fmt.Errorf("%w: invalid wallet address %q", ErrInvalidInput, walletAddress)
	}

	user := &model.UserModel{
		Username:      username,
		WalletAddress: common.HexToAddress(walletAddress).Hex(),
	}
	if err := u.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to register user %s: %w", username, err)
	}
	return user, nil
}

// GetUsers 获取所有注册用户
func (u *UserLogic) GetUsers() ([]model.UserModel, error) {
	var users []model.UserModel
	if err := u.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// Lookup 根据用户名查找钱包地址
func (u *UserLogic) Lookup(username string) (string, bool, error) {
	var user model.UserModel
	err := u.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return user.WalletAddress, true, nil
}

// IsRegistered 用户是否已注册
func (u *UserLogic) IsRegistered(username string) (bool, error) {
	_, ok, err := u.Lookup(username)
	return ok, err
}

// WalletMap 构建用户名到钱包地址的映射，批处理期间注册表只读
func (u *UserLogic) WalletMap() (map[string]string, error) {
	users, err := u.GetUsers()
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(users))
	for _, user := range users {
		if user.Username != "" && user.WalletAddress != "" {
			mapping[user.Username] = user.WalletAddress
		}
	}
	return mapping, nil
}
