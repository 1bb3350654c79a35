package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TitleSanitizerService はタスクタイトルのサニタイズ機能のインターフェースを定義する。
// タイトル保存前に使用される。
type TitleSanitizerService interface {
	// Sanitize はタイトルから全てのHTMLタグを除去し、前後の空白を取り除いて返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawTitle string) string
}

// titleSanitizer はTitleSanitizerServiceの実装。
// bluemondayのStrictPolicy（全タグ除去）を保持し、スレッドセーフに処理を行う。
type titleSanitizer struct {
	policy *bluemonday.Policy
}

// NewTitleSanitizer はTitleSanitizerServiceの新しいインスタンスを生成する。
// タイトルはプレーンテキストとして扱うため、許可タグは一切ない。
func NewTitleSanitizer() *titleSanitizer {
	return &titleSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はタイトルから全てのHTMLタグを除去し、前後の空白を取り除いて返す。
func (s *titleSanitizer) Sanitize(rawTitle string) string {
	return strings.TrimSpace(s.policy.Sanitize(rawTitle))
}
