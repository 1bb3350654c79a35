// Package security はアプリケーションのセキュリティ機能を提供する。
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash は存在しないユーザーへのログイン試行時に使用するbcryptハッシュ。
// 実在ユーザーのパスワード不一致と同等の計算コストをかけることで、
// レスポンスタイムからメールアドレスの登録有無を推測できないようにする。
// 平文は公開しない（どのパスワードとも一致しないハッシュ値であればよい）。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordHasher はbcryptによるパスワードのハッシュ化と検証を提供する。
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher はPasswordHasherを生成する。
// costが0以下の場合はbcrypt.DefaultCostを使用する。
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash はパスワードのbcryptハッシュを生成する。
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify は提出されたパスワードを保存済みハッシュと照合する。
// bcryptの比較は入力に依存しない一定時間で完了する。
func (h *PasswordHasher) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// VerifyDummy はダミーハッシュに対して照合を実行する。常にfalseを返す。
// ユーザーが存在しない場合でも呼び出すことで、
// 存在するユーザーへの照合と処理時間を揃える。
func (h *PasswordHasher) VerifyDummy(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password)) == nil
}
