package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// defaultTimeout はバックエンド呼び出しの既定タイムアウト。全動詞に適用される。
const defaultTimeout = 120 * time.Second

// Collector はバックエンド呼び出しのメトリクス収集インターフェース。
// metrics.Collectorの部分集合として定義する。
type Collector interface {
	RecordBackendRequest(method string, statusCode int)
	RecordBackendLatency(duration time.Duration)
}

// FactoryConfig は統合クライアントファクトリの設定。
type FactoryConfig struct {
	// Timeout は1呼び出しあたりの上限時間。0の場合は120秒。
	Timeout time.Duration
	// InsecureSkipVerify はTLS証明書検証を無効化する明示的なオプトアウト。
	// 自己署名証明書の内部バックエンド向け。既定は検証有効。
	InsecureSkipVerify bool
}

// Factory はリクエスト単位のClient生成器。
// http.Clientはプロセス内で共有し、資格情報スナップショットのみを差し替える。
type Factory struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    Collector
}

// NewFactory はFactoryを生成する。
// リダイレクトは追従せず、タイムアウトは全動詞に一律で適用する。
func NewFactory(cfg FactoryConfig, logger *slog.Logger, metrics Collector) *Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Factory{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger,
		metrics: metrics,
	}
}

// WithCredentials は指定した資格情報スナップショットを使うClientを返す。
// 資格情報はリクエストごとに明示的に渡す。プロセス全体の可変ストアは持たない。
func (f *Factory) WithCredentials(credential model.Credential) *Client {
	return &Client{
		httpClient: f.httpClient,
		credential: credential,
		logger:     f.logger,
		metrics:    f.metrics,
	}
}

// Client はバックエンド呼び出しの唯一の出口となるHTTP統合クライアント。
// すべての失敗はErrorObjectの値として返し、呼び出し側に例外を伝搬させない。
type Client struct {
	httpClient *http.Client
	credential model.Credential
	logger     *slog.Logger
	metrics    Collector
}

// Invoke は指定の動詞・URLでバックエンドを呼び出す。
// 成功時はレスポンスボディの生JSON（空ボディの場合は空）を返し、
// 失敗時は正規化されたErrorObjectを返す。戻り値はちょうど一方が非nil相当となる。
func (c *Client) Invoke(ctx context.Context, method, targetURL string, body []byte) (json.RawMessage, *model.ErrorObject) {
	// GETはボディを持たない
	if method == http.MethodGet {
		body = nil
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, reader)
	if err != nil {
		c.logger.Error("failed to build backend request",
			slog.String("method", method),
			slog.String("url", targetURL),
			slog.String("error", err.Error()),
		)
		return nil, model.ServiceUnavailable(targetURL)
	}

	req.Header.Set("content-type", "application/json")
	req.Header.Set("xf-provider-signature", c.credential.Provider)
	if c.credential.Authorization != "" {
		req.Header.Set("Authorization", "Bearer "+c.credential.Authorization)
	}

	c.logger.Info("invoke backend request",
		slog.String("method", method),
		slog.String("url", targetURL),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// タイムアウト・接続拒否・その他のトランスポート障害はすべて合成503に正規化する
		c.logger.Error("backend request failed",
			slog.String("method", method),
			slog.String("url", targetURL),
			slog.String("error", err.Error()),
		)
		if c.metrics != nil {
			c.metrics.RecordBackendRequest(method, 0)
		}
		return nil, model.ServiceUnavailable(targetURL)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordBackendRequest(method, resp.StatusCode)
		c.metrics.RecordBackendLatency(time.Since(start))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read backend response",
			slog.String("method", method),
			slog.String("url", targetURL),
			slog.String("error", err.Error()),
		)
		return nil, model.ServiceUnavailable(targetURL)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errObj := c.parseErrorBody(respBody, resp.StatusCode, targetURL)
		c.logger.Error("backend returned error status",
			slog.String("method", method),
			slog.String("url", targetURL),
			slog.Int("http_status", resp.StatusCode),
			slog.String("name", errObj.Name),
		)
		return nil, errObj
	}

	if len(respBody) == 0 {
		return json.RawMessage{}, nil
	}

	return json.RawMessage(respBody), nil
}

// parseErrorBody は非2xxレスポンスのボディをErrorObjectとしてパースする。
// ボディが空・パース不能な場合は合成503のErrorObjectを返す。
func (c *Client) parseErrorBody(body []byte, statusCode int, targetURL string) *model.ErrorObject {
	if len(body) == 0 {
		return model.ServiceUnavailable(targetURL)
	}

	var errObj model.ErrorObject
	if err := json.Unmarshal(body, &errObj); err != nil {
		c.logger.Error("failed to parse backend error body",
			slog.String("url", targetURL),
			slog.String("error", err.Error()),
		)
		return model.ServiceUnavailable(targetURL)
	}

	// エラーボディがステータスを運ばない場合はHTTPステータスで補完する
	if errObj.StatusCode == 0 {
		errObj.StatusCode = statusCode
	}

	return &errObj
}
