// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/taskdeck/internal/model"
)

// ErrDuplicateEmail は登録済みメールアドレスでの重複作成を示す。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが重複する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// TodoRepository はタスクデータの永続化インターフェース。
type TodoRepository interface {
	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	// 所有者によるフィルタは行わない。所有権チェックはサービス層の責務。
	FindByID(ctx context.Context, id string) (*model.Todo, error)

	// ListByOwnerID は指定ユーザーが所有する全タスクを作成日時の降順で返す。
	ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Todo, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, todo *model.Todo) error

	// Update はタスクのtitle、completed、updated_atを上書き更新する。
	// owner_idは更新対象に含めない。
	Update(ctx context.Context, todo *model.Todo) error

	// DeleteByID は指定IDのタスクを削除する。
	DeleteByID(ctx context.Context, id string) error
}
