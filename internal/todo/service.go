// Package todo はタスク管理のドメインロジックを提供する。
// 全操作は認証済みユーザーIDを要求し、所有権チェックを通過した場合のみ実行される。
package todo

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// maxTitleLength はタイトルの最大文字数。
const maxTitleLength = 500

// TitleSanitizer はタイトルのサニタイズインターフェース。
// security.TitleSanitizerServiceの部分集合として定義する。
type TitleSanitizer interface {
	Sanitize(rawTitle string) string
}

// MetricsRecorder はタスク操作のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type MetricsRecorder interface {
	RecordTodoOp(op string)
}

// Service はタスク管理のサービス層。
// 一覧取得、作成、更新、削除のビジネスロジックと所有権チェックを提供する。
//
// 所有権チェックの方針: 存在確認を先に行い、存在しないIDには404、
// 他ユーザー所有のIDには403を返す。タスクIDはランダムなUUIDであり
// 存在の開示に実害がないため、クライアント側の不具合調査を優先して
// 2つの失敗を区別する（DESIGN.md参照）。
type Service struct {
	todoRepo  repository.TodoRepository
	sanitizer TitleSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(todoRepo repository.TodoRepository, sanitizer TitleSanitizer, metrics MetricsRecorder) *Service {
	return &Service{
		todoRepo:  todoRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// List は呼び出しユーザーが所有する全タスクを作成日時の降順で返す。
// ownerIDはリクエストコンテキスト由来の認証済みユーザーIDであること。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	s.recordOp("list")
	return todos, nil
}

// Create は呼び出しユーザーを所有者とする新規タスクを作成する。
// タイトルはHTML除去後に空の場合、または500文字を超える場合にエラーとなる。
// 重複排除は行わない（同一タイトルの再送信は別タスクを作成する）。
func (s *Service) Create(ctx context.Context, ownerID, title string) (*model.Todo, error) {
	title = s.sanitizeTitle(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return nil, model.NewInvalidTitleError()
	}

	now := time.Now()
	todo := &model.Todo{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.recordOp("create")
	return todo, nil
}

// Update はタスクを部分更新する。
// patchのnilフィールドは既存の値を維持する。
// 明示的に空のタイトルが指定された場合は無視せずエラーを返す。
func (s *Service) Update(ctx context.Context, ownerID, todoID string, patch model.TodoPatch) (*model.Todo, error) {
	todo, err := s.findOwned(ctx, ownerID, todoID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := s.sanitizeTitle(*patch.Title)
		if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
			return nil, model.NewInvalidTitleError()
		}
		todo.Title = title
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now()

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.recordOp("update")
	return todo, nil
}

// Delete はタスクを削除する。
// 削除済みIDへの再実行は404となる（存在確認を先に行うため）。
func (s *Service) Delete(ctx context.Context, ownerID, todoID string) error {
	if _, err := s.findOwned(ctx, ownerID, todoID); err != nil {
		return err
	}

	if err := s.todoRepo.DeleteByID(ctx, todoID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.recordOp("delete")
	return nil
}

// findOwned はタスクを取得し、存在確認と所有権チェックを行う。
// 存在しない場合はTODO_NOT_FOUND、所有者が異なる場合はTODO_FORBIDDENを返す。
// チェックの順序は固定: 存在確認が先、所有権チェックが後。
func (s *Service) findOwned(ctx context.Context, ownerID, todoID string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(todoID)
	}
	if todo.OwnerID != ownerID {
		return nil, model.NewTodoForbiddenError()
	}
	return todo, nil
}

func (s *Service) sanitizeTitle(title string) string {
	if s.sanitizer != nil {
		return s.sanitizer.Sanitize(title)
	}
	return title
}

func (s *Service) recordOp(op string) {
	if s.metrics != nil {
		s.metrics.RecordTodoOp(op)
	}
}
