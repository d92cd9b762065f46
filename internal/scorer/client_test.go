package scorer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Attenomics-Labs/attenomics-agent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(uri string) *Client {
	return NewClient(config.ScorerConfig{
		URI:         uri,
		AuthToken:   "secret-token",
		Timeout:     5,
		TotalPoints: 300,
	})
}

func TestEvalSupport(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Write([]byte(`[{"username":"alice","wallet_address":"","percent_based_supp":60},{"username":"bob","wallet_address":"0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF","percent_based_supp":40}]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EvalSupport(context.Background(), []string{"post-1", "post-2"})
	require.NoError(t, err)

	require.Len(t, result.Scores, 2)
	assert.Equal(t, "alice", result.Scores[0].Username)
	assert.InDelta(t, 60.0, result.Scores[0].Percent, 1e-9)
	assert.Equal(t, "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF", result.Scores[1].WalletAddress)

	// 请求体携带帖子和总点数
	var req struct {
		Posts       []string `json:"posts"`
		TotalPoints int      `json:"total_points"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &req))
	assert.Equal(t, []string{"post-1", "post-2"}, req.Posts)
	assert.Equal(t, 300, req.TotalPoints)
}

func TestEvalAttention(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"username":"alice","attention":12.5}]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EvalAttention(context.Background(), []string{"post-1"})
	require.NoError(t, err)

	require.Len(t, result.Scores, 1)
	assert.InDelta(t, 12.5, result.Scores[0].Attention, 1e-9)
}

func TestAuditHashesMatchWireBytes(t *testing.T) {
	respBody := []byte(`[{"username":"alice","attention":1}]`)
	var reqBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqBody, _ = io.ReadAll(r.Body)
		w.Write(respBody)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).EvalAttention(context.Background(), []string{"post-1"})
	require.NoError(t, err)

	// 审计哈希必须针对原始线上字节计算
	reqSum := sha256.Sum256(reqBody)
	resSum := sha256.Sum256(respBody)
	assert.Equal(t, hex.EncodeToString(reqSum[:]), result.ReqHash)
	assert.Equal(t, hex.EncodeToString(resSum[:]), result.ResHash)
}

func TestEvalRejectsMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `oops`},
		{"object instead of array", `{"username":"alice","attention":1}`},
		{"unknown field", `[{"username":"alice","attention":1,"extra":true}]`},
		{"trailing data", `[{"username":"alice","attention":1}] []`},
		{"empty username", `[{"username":"","attention":1}]`},
		{"negative score", `[{"username":"alice","attention":-1}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).EvalAttention(context.Background(), []string{"post-1"})
			assert.Error(t, err)
		})
	}
}

func TestEvalSupportRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no identifier", `[{"username":"","wallet_address":"","percent_based_supp":10}]`},
		{"negative percent", `[{"username":"alice","wallet_address":"","percent_based_supp":-5}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).EvalSupport(context.Background(), []string{"post-1"})
			assert.Error(t, err)
		})
	}
}

func TestEvalFailsOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).EvalSupport(context.Background(), []string{"post-1"})
	assert.ErrorContains(t, err, "429")
}

func TestEvalHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).EvalSupport(ctx, []string{"post-1"})
	assert.Error(t, err)
}
