package handler

import (
	"net/http"
	"strconv"

	"github.com/Attenomics-Labs/attenomics-agent/internal/chain"
	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/Attenomics-Labs/attenomics-agent/internal/distribution"
	"github.com/Attenomics-Labs/attenomics-agent/internal/logic"
	"github.com/Attenomics-Labs/attenomics-agent/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DistributionHandler 分发条目处理器
type DistributionHandler struct {
	distributionLogic *logic.DistributionLogic
	broadcastLogic    *logic.BroadcastLogic
	ledgerLogic       *logic.LedgerLogic
	directLogic       *logic.DirectLogic
	creatorLogic      *logic.CreatorLogic
}

// NewDistributionHandler 创建分发条目处理器
func NewDistributionHandler(db *gorm.DB, builder *distribution.Builder, sink chain.Distributor, cfg *config.Config) *DistributionHandler {
	return &DistributionHandler{
		distributionLogic: logic.NewDistributionLogic(db, builder, sink, cfg.Task.PoolSize),
		broadcastLogic:    logic.NewBroadcastLogic(db, sink),
		ledgerLogic:       logic.NewLedgerLogic(db),
		directLogic:       logic.NewDirectLogic(db),
		creatorLogic:      logic.NewCreatorLogic(db),
	}
}

// CreateDaily 为所有创作者创建日窗口分发条目
func (h *DistributionHandler) CreateDaily(c *gin.Context) {
	var req CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.DayStart == "" {
		ErrorResponse(c, http.StatusBadRequest, "day_start不能为空")
		return
	}

	start, end, label, err := logic.ParseDayWindow(req.DayStart)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcomes, err := h.distributionLogic.CreateForAll(c.Request.Context(), start, end, label, model.WindowKindDay)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "日分发条目处理完成", gin.H{
		"window_label": label,
		"outcomes":     outcomes,
	})
}

// CreateWeekly 为所有创作者创建周窗口分发条目
func (h *DistributionHandler) CreateWeekly(c *gin.Context) {
	var req CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.WeekStart == "" {
		ErrorResponse(c, http.StatusBadRequest, "week_start不能为空")
		return
	}

	start, end, label, err := logic.ParseWeekWindow(req.WeekStart)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcomes, err := h.distributionLogic.CreateForAll(c.Request.Context(), start, end, label, model.WindowKindWeek)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "周分发条目处理完成", gin.H{
		"window_label": label,
		"outcomes":     outcomes,
	})
}

// CreateForCreator 为单个创作者创建日窗口分发条目
func (h *DistributionHandler) CreateForCreator(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ErrorResponse(c, http.StatusBadRequest, "创作者名称不能为空")
		return
	}

	var req CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 日窗口和周窗口二选一
	var start, end int64
	var label string
	var err error
	kind := model.WindowKindDay
	switch {
	case req.DayStart != "" && req.WeekStart != "":
		ErrorResponse(c, http.StatusBadRequest, "day_start和week_start只能指定一个")
		return
	case req.DayStart != "":
		start, end, label, err = logic.ParseDayWindow(req.DayStart)
	case req.WeekStart != "":
		start, end, label, err = logic.ParseWeekWindow(req.WeekStart)
		kind = model.WindowKindWeek
	default:
		ErrorResponse(c, http.StatusBadRequest, "day_start不能为空")
		return
	}
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	creator, err := h.creatorLogic.GetCreator(name)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	outcome := h.distributionLogic.CreateForCreator(c.Request.Context(), creator, start, end, label, kind)
	SuccessResponse(c, http.StatusCreated, "分发条目处理完成", gin.H{
		"window_label": label,
		"outcome":      outcome,
	})
}

// GetEntry 按创作者和窗口起始查询分发条目
func (h *DistributionHandler) GetEntry(c *gin.Context) {
	name := c.Param("name")
	windowStart, err := strconv.ParseInt(c.Query("window_start"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "window_start参数无效")
		return
	}

	entry, err := h.ledgerLogic.GetEntry(name, windowStart)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		ErrorResponse(c, http.StatusNotFound, "分发条目不存在")
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"entry": entry})
}

// GetEntries 查询创作者的全部分发条目
func (h *DistributionHandler) GetEntries(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		ErrorResponse(c, http.StatusBadRequest, "创作者名称不能为空")
		return
	}

	entries, err := h.ledgerLogic.GetEntries(name)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"entries": entries})
}

// ListPending 查询所有待广播的分发条目
func (h *DistributionHandler) ListPending(c *gin.Context) {
	entries, err := h.ledgerLogic.ListPending()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"entries": entries})
}

// Broadcast 广播所有待处理分发条目
func (h *DistributionHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	method := req.Method
	if method == "" {
		method = model.MethodSignature
	}

	batchId, outcomes, err := h.broadcastLogic.BroadcastPending(c.Request.Context(), method)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "广播批次处理完成", gin.H{
		"batch_id": batchId,
		"outcomes": outcomes,
	})
}

// CreateDirect 创建直接分发条目
func (h *DistributionHandler) CreateDirect(c *gin.Context) {
	var req CreateDirectDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.directLogic.Create(req.CreatorName, req.TokenContract, req.DistributorContract, req.Recipients, req.Amounts, req.TotalAmount)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "直接分发条目已创建", gin.H{"record": record})
}

// BroadcastDirect 广播所有待处理直接分发条目
func (h *DistributionHandler) BroadcastDirect(c *gin.Context) {
	outcomes, err := h.broadcastLogic.BroadcastDirect(c.Request.Context())
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "直接分发广播完成", gin.H{"outcomes": outcomes})
}
