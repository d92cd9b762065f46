package scorer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
)

// AttentionScore 创作者注意力评分
type AttentionScore struct {
	Username  string  `json:"username"`
	Attention float64 `json:"attention"`
}

// SupportScore 支持者百分比评分。WalletAddress 可以为空，
// 为空时由聚合层通过用户名在注册表中解析。
type SupportScore struct {
	Username      string  `json:"username"`
	WalletAddress string  `json:"wallet_address"`
	Percent       float64 `json:"percent_based_supp"`
}

// AttentionResult judge注意力评分结果
type AttentionResult struct {
	Scores  []AttentionScore
	ReqHash string
	ResHash string
}

// SupportResult judge支持者评分结果
type SupportResult struct {
	Scores  []SupportScore
	ReqHash string
	ResHash string
}

// Client judge评分服务客户端
type Client struct {
	httpClient  *http.Client
	uri         string
	authToken   string
	totalPoints int
}

// NewClient 创建judge客户端
func NewClient(cfg config.ScorerConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		uri:         cfg.URI,
		authToken:   cfg.AuthToken,
		totalPoints: cfg.TotalPoints,
	}
}

// scoreRequest judge评分请求体
type scoreRequest struct {
	Posts       []string `json:"posts"`
	TotalPoints int      `json:"total_points"`
}

// EvalAttention 评估所有创作者的注意力分布
func (c *Client) EvalAttention(ctx context.Context, posts []string) (*AttentionResult, error) {
	body, reqHash, resHash, err := c.post(ctx, posts)
	if err != nil {
		return nil, err
	}

	var scores []AttentionScore
	if err := decodeStrict(body, &scores); err != nil {
		return nil, fmt.Errorf("invalid attention response: %w", err)
	}
	for i, s := range scores {
		if s.Username == "" {
			return nil, fmt.Errorf("invalid attention response: empty username at index %d", i)
		}
		if math.IsNaN(s.Attention) || math.IsInf(s.Attention, 0) || s.Attention < 0 {
			return nil, fmt.Errorf("invalid attention response: bad score for %s", s.Username)
		}
	}

	return &AttentionResult{Scores: scores, ReqHash: reqHash, ResHash: resHash}, nil
}

// EvalSupport 评估单个创作者的支持者百分比分布
func (c *Client) EvalSupport(ctx context.Context, posts []string) (*SupportResult, error) {
	body, reqHash, resHash, err := c.post(ctx, posts)
	if err != nil {
		return nil, err
	}

	var scores []SupportScore
	if err := decodeStrict(body, &scores); err != nil {
		return nil, fmt.Errorf("invalid support response: %w", err)
	}
	for i, s := range scores {
		if s.Username == "" && s.WalletAddress == "" {
			return nil, fmt.Errorf("invalid support response: no identifier at index %d", i)
		}
		if math.IsNaN(s.Percent) || math.IsInf(s.Percent, 0) || s.Percent < 0 {
			return nil, fmt.Errorf("invalid support response: bad percent at index %d", i)
		}
	}

	return &SupportResult{Scores: scores, ReqHash: reqHash, ResHash: resHash}, nil
}

// post 发送评分请求，返回响应体和请求/响应的审计哈希
func (c *Client) post(ctx context.Context, posts []string) ([]byte, string, string, error) {
	reqBody, err := json.Marshal(scoreRequest{
		Posts:       posts,
		TotalPoints: c.totalPoints,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to marshal scorer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri, bytes.NewReader(reqBody))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to build scorer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read scorer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", "", fmt.Errorf("scorer returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, hashHex(reqBody), hashHex(respBody), nil
}

// decodeStrict 严格解析响应，必须是单一的JSON数组形态，其他形态一律拒绝
func decodeStrict(data []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return err
	}
	// 数组之后不允许有多余内容
	if dec.More() {
		return fmt.Errorf("trailing data after response array")
	}
	return nil
}

// hashHex sha256审计哈希
func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
