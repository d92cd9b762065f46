package handler

import (
	"net/http"
	"strconv"

	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/Attenomics-Labs/attenomics-agent/internal/scorer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SupportHandler 细粒度窗口记录处理器
type SupportHandler struct {
	supportLogic *logic.SupportLogic
	db           *gorm.DB
}

// NewSupportHandler 创建窗口记录处理器
func NewSupportHandler(db *gorm.DB, cfg *config.Config) *SupportHandler {
	return &SupportHandler{
		supportLogic: logic.NewSupportLogic(db, cfg.Scorer.NormalizePercent),
		db:           db,
	}
}

// RecordScores 写入一条细粒度窗口记录
func (h *SupportHandler) RecordScores(c *gin.Context) {
	var req RecordScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	granularity := req.Granularity
	if granularity == "" {
		granularity = model.GranularitySixHour
	}

	scores := make([]scorer.SupportScore, 0, len(req.Scores))
	for _, s := range req.Scores {
		scores = append(scores, scorer.SupportScore{
			Username:      s.Username,
			WalletAddress: s.WalletAddress,
			Percent:       s.Percent,
		})
	}

	record, err := h.supportLogic.RecordScores(
		req.CreatorName,
		req.WindowStart,
		granularity,
		&scorer.SupportResult{Scores: scores, ReqHash: req.ReqHash, ResHash: req.ResHash},
		req.Attention,
	)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "窗口记录已写入", gin.H{
		"record":  record,
		"skipped": record.Skipped,
	})
}

// GetRecords 查询创作者的细粒度窗口记录
func (h *SupportHandler) GetRecords(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ErrorResponse(c, http.StatusBadRequest, "创作者名称不能为空")
		return
	}

	from, _ := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)
	to, _ := strconv.ParseInt(c.DefaultQuery("to", "0"), 10, 64)

	query := h.db.Where("creator_name = ?", name)
	if from > 0 {
		query = query.Where("window_start >= ?", from)
	}
	if to > 0 {
		query = query.Where("window_start < ?", to)
	}

	var records []model.SupportRecordModel
	if err := query.Order("window_start ASC").Find(&records).Error; err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"records": records})
}
