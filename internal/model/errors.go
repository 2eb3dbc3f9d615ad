package model

import (
	"fmt"
	"time"
)

// エラー名の定義。バックエンドの統一エラーフォーマットに合わせる。
const (
	// ErrNameRequestException は接続不能・タイムアウト等のトランスポート障害を示す。
	ErrNameRequestException = "REQUEST_EXCEPTION"
	// ErrNameResponseParseError は2xxレスポンスのボディがデコードできなかったことを示す。
	ErrNameResponseParseError = "RESPONSE_PARSE_ERROR"
)

// Issue はErrorObjectの個別の問題点を表す。
type Issue struct {
	Issue   string `json:"issue"`
	Message string `json:"message"`
}

// ErrorObject はバックエンド呼び出し失敗の正規化表現。
// 統合クライアントは例外を送出せず、すべての失敗をこの値として返す。
//
//	{
//	    "name": "AUTHENTICATION_REQUIRED_ERROR",
//	    "message": "Authentication Credentials is not valid",
//	    "status_code": 401,
//	    "timestamp": 1519932912012,
//	    "issues": [{"issue": "...", "message": "..."}]
//	}
type ErrorObject struct {
	Name       string  `json:"name"`
	Message    string  `json:"message"`
	StatusCode int     `json:"status_code"`
	Timestamp  int64   `json:"timestamp"`
	Issues     []Issue `json:"issues"`
}

// Error はerrorインターフェースを実装する。ログ出力用であり、
// 呼び出し側への伝搬はあくまで値として行う。
func (e *ErrorObject) Error() string {
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Name, e.Message)
}

// ServiceUnavailable はバックエンドに到達できなかった場合の合成503エラーを生成する。
// 診断のため発生元URLをissueメッセージに含める。
func ServiceUnavailable(url string) *ErrorObject {
	return &ErrorObject{
		Name:       ErrNameRequestException,
		Message:    "failed to establish a new connection: connection refused",
		StatusCode: 503,
		Timestamp:  time.Now().UnixMilli(),
		Issues: []Issue{{
			Issue:   "RequestException",
			Message: fmt.Sprintf("max retries exceeded with url %s", url),
		}},
	}
}

// ResponseParseError は2xxボディのデコード失敗を表す合成502エラーを生成する。
func ResponseParseError(url string, cause error) *ErrorObject {
	return &ErrorObject{
		Name:       ErrNameResponseParseError,
		Message:    "failed to decode backend response body",
		StatusCode: 502,
		Timestamp:  time.Now().UnixMilli(),
		Issues: []Issue{{
			Issue:   "UnmarshalException",
			Message: fmt.Sprintf("url %s: %v", url, cause),
		}},
	}
}
