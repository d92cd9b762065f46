package handler

import (
	"net/http"

	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatorHandler 创作者处理器
type CreatorHandler struct {
	creatorLogic *logic.CreatorLogic
}

// NewCreatorHandler 创建创作者处理器
func NewCreatorHandler(db *gorm.DB) *CreatorHandler {
	return &CreatorHandler{
		creatorLogic: logic.NewCreatorLogic(db),
	}
}

// SeedCreators 批量登记创作者
func (h *CreatorHandler) SeedCreators(c *gin.Context) {
	var req SeedCreatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	created, skipped, err := h.creatorLogic.SeedCreators(req.CreatorNames)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "创作者登记完成", gin.H{
		"created": created,
		"skipped": skipped,
	})
}

// GetCreators 获取创作者列表
func (h *CreatorHandler) GetCreators(c *gin.Context) {
	creators, err := h.creatorLogic.GetCreators()
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"creators": creators})
}

// GetCreator 获取单个创作者
func (h *CreatorHandler) GetCreator(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ErrorResponse(c, http.StatusBadRequest, "创作者名称不能为空")
		return
	}

	creator, err := h.creatorLogic.GetCreator(name)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"creator": creator})
}

// UpdateCreator 更新创作者链上信息
func (h *CreatorHandler) UpdateCreator(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ErrorResponse(c, http.StatusBadRequest, "创作者名称不能为空")
		return
	}

	var req UpdateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.creatorLogic.UpdateWiring(name, req.TokenContract, req.DistributorContract, req.WalletAddress, req.Scheme)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "创作者更新成功", nil)
}
