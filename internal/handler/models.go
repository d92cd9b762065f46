package handler

// 请求模型

// SeedCreatorsRequest 批量登记创作者请求
type SeedCreatorsRequest struct {
	CreatorNames []string `json:"creator_names" binding:"required"`
}

// UpdateCreatorRequest 更新创作者链上信息请求
type UpdateCreatorRequest struct {
	TokenContract       *string `json:"token_contract"`
	DistributorContract *string `json:"distributor_contract"`
	WalletAddress       *string `json:"wallet_address"`
	Scheme              *string `json:"scheme"`
}

// RegisterUserRequest 注册用户请求
type RegisterUserRequest struct {
	Username      string `json:"username" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// ScoreEntry 评分条目
type ScoreEntry struct {
	Username      string  `json:"username"`
	WalletAddress string  `json:"wallet_address"`
	Percent       float64 `json:"percent_based_supp"`
}

// RecordScoresRequest 写入细粒度窗口记录请求
type RecordScoresRequest struct {
	CreatorName string       `json:"creator_name" binding:"required"`
	WindowStart int64        `json:"window_start" binding:"required"`
	Granularity string       `json:"granularity"`
	Scores      []ScoreEntry `json:"scores"`
	ReqHash     string       `json:"req_hash"`
	ResHash     string       `json:"res_hash"`
	Attention   float64      `json:"attention"`
}

// CreateDistributionRequest 创建分发条目请求，窗口起始为ISO日期
type CreateDistributionRequest struct {
	DayStart  string `json:"day_start"`
	WeekStart string `json:"week_start"`
}

// BroadcastRequest 广播请求
type BroadcastRequest struct {
	Method string `json:"method"`
}

// CreateDirectDistributionRequest 创建直接分发条目请求
type CreateDirectDistributionRequest struct {
	CreatorName         string   `json:"creator_name" binding:"required"`
	TokenContract       string   `json:"token_contract"`
	DistributorContract string   `json:"distributor_contract" binding:"required"`
	Recipients          []string `json:"recipients" binding:"required"`
	Amounts             []string `json:"amounts" binding:"required"`
	TotalAmount         string   `json:"total_amount" binding:"required"`
}
