package handler

import (
	"net/http"

	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 注册用户处理器
type UserHandler struct {
	userLogic *logic.UserLogic
}

// NewUserHandler 创建用户处理器
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userLogic: logic.NewUserLogic(db),
	}
}

// RegisterUser 注册用户
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userLogic.RegisterUser(req.Username, req.WalletAddress)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "用户注册成功", gin.H{"user": user})
}

// GetUsers 获取注册用户列表
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userLogic.GetUsers()
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"users": users})
}
