package todo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// --- モック定義 ---

type mockTodoRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.Todo, error)
	listByOwnerIDFn func(ctx context.Context, ownerID string) ([]*model.Todo, error)
	createFn        func(ctx context.Context, todo *model.Todo) error
	updateFn        func(ctx context.Context, todo *model.Todo) error
	deleteByIDFn    func(ctx context.Context, id string) error
}

func (m *mockTodoRepo) FindByID(ctx context.Context, id string) (*model.Todo, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTodoRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*model.Todo, error) {
	if m.listByOwnerIDFn != nil {
		return m.listByOwnerIDFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	if m.createFn != nil {
		return m.createFn(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepo) Update(ctx context.Context, todo *model.Todo) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

var _ repository.TodoRepository = (*mockTodoRepo)(nil)

// passthroughSanitizer は空白除去のみを行う軽量サニタイザ。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(rawTitle string) string {
	return strings.TrimSpace(rawTitle)
}

func newTestService(repo *mockTodoRepo) *Service {
	return NewService(repo, passthroughSanitizer{}, nil)
}

func apiErrCode(t *testing.T, err error) string {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	return apiErr.Code
}

// --- テスト ---

func TestList_ReturnsOwnerTasksInDescendingOrder(t *testing.T) {
	now := time.Now()
	repo := &mockTodoRepo{
		listByOwnerIDFn: func(ctx context.Context, ownerID string) ([]*model.Todo, error) {
			if ownerID != "alice" {
				t.Errorf("ownerID = %q, want %q", ownerID, "alice")
			}
			// リポジトリはcreated_at降順で返す
			return []*model.Todo{
				{ID: "todo-b", OwnerID: "alice", Title: "B", CreatedAt: now},
				{ID: "todo-a", OwnerID: "alice", Title: "A", CreatedAt: now.Add(-time.Minute)},
			}, nil
		},
	}
	svc := newTestService(repo)

	todos, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("len(todos) = %d, want 2", len(todos))
	}
	if todos[0].Title != "B" || todos[1].Title != "A" {
		t.Errorf("order = [%s, %s], want [B, A]", todos[0].Title, todos[1].Title)
	}
}

func TestCreate_ValidTitle_CreatesUncompletedTask(t *testing.T) {
	var created *model.Todo
	repo := &mockTodoRepo{
		createFn: func(ctx context.Context, todo *model.Todo) error {
			created = todo
			return nil
		},
	}
	svc := newTestService(repo)

	todo, err := svc.Create(context.Background(), "alice", "buy milk")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created == nil {
		t.Fatal("todo should have been persisted")
	}
	if todo.ID == "" {
		t.Error("created todo should have a generated ID")
	}
	if todo.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want %q", todo.OwnerID, "alice")
	}
	if todo.Completed {
		t.Error("new todo must start with completed=false")
	}
}

func TestCreate_EmptyOrBlankTitle_ReturnsInvalidTitle(t *testing.T) {
	svc := newTestService(&mockTodoRepo{})

	for _, title := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), "alice", title)
		if code := apiErrCode(t, err); code != model.ErrCodeInvalidTitle {
			t.Errorf("Create(%q): code = %q, want %q", title, code, model.ErrCodeInvalidTitle)
		}
	}
}

func TestCreate_TitleTooLong_ReturnsInvalidTitle(t *testing.T) {
	svc := newTestService(&mockTodoRepo{})

	_, err := svc.Create(context.Background(), "alice", strings.Repeat("あ", 501))
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidTitle {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidTitle)
	}
}

func TestUpdate_PartialPatch_KeepsOtherFields(t *testing.T) {
	var updated *model.Todo
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return &model.Todo{ID: id, OwnerID: "alice", Title: "buy milk", Completed: false}, nil
		},
		updateFn: func(ctx context.Context, todo *model.Todo) error {
			updated = todo
			return nil
		},
	}
	svc := newTestService(repo)

	completed := true
	todo, err := svc.Update(context.Background(), "alice", "todo-1", model.TodoPatch{Completed: &completed})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !todo.Completed {
		t.Error("completed should be updated to true")
	}
	if todo.Title != "buy milk" {
		t.Errorf("title = %q, want unchanged %q", todo.Title, "buy milk")
	}
	if updated == nil {
		t.Fatal("update should have been persisted")
	}
}

func TestUpdate_ExplicitEmptyTitle_ReturnsInvalidTitle(t *testing.T) {
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return &model.Todo{ID: id, OwnerID: "alice", Title: "buy milk"}, nil
		},
	}
	svc := newTestService(repo)

	empty := ""
	_, err := svc.Update(context.Background(), "alice", "todo-1", model.TodoPatch{Title: &empty})
	if code := apiErrCode(t, err); code != model.ErrCodeInvalidTitle {
		t.Errorf("code = %q, want %q", code, model.ErrCodeInvalidTitle)
	}
}

func TestUpdate_UnknownID_ReturnsNotFound(t *testing.T) {
	svc := newTestService(&mockTodoRepo{})

	title := "new title"
	_, err := svc.Update(context.Background(), "alice", "missing-id", model.TodoPatch{Title: &title})
	if code := apiErrCode(t, err); code != model.ErrCodeTodoNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoNotFound)
	}
}

// 他ユーザー所有のタスクへの更新は404ではなく403を返すことを検証する。
// 存在確認が先、所有権チェックが後という順序の検証でもある。
func TestUpdate_NotOwner_ReturnsForbidden(t *testing.T) {
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return &model.Todo{ID: id, OwnerID: "alice", Title: "alice's task"}, nil
		},
	}
	svc := newTestService(repo)

	completed := true
	_, err := svc.Update(context.Background(), "bob", "todo-1", model.TodoPatch{Completed: &completed})
	if code := apiErrCode(t, err); code != model.ErrCodeTodoForbidden {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoForbidden)
	}
}

func TestDelete_Owner_DeletesTask(t *testing.T) {
	var deletedID string
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return &model.Todo{ID: id, OwnerID: "alice"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), "alice", "todo-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deletedID != "todo-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "todo-1")
	}
}

func TestDelete_NotOwner_ReturnsForbiddenWithoutDeleting(t *testing.T) {
	deleteCalled := false
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return &model.Todo{ID: id, OwnerID: "alice"}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), "bob", "todo-1")
	if code := apiErrCode(t, err); code != model.ErrCodeTodoForbidden {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoForbidden)
	}
	if deleteCalled {
		t.Error("delete must not be executed for a non-owner")
	}
}

// 削除済みIDへの再削除は404となることを検証する。
func TestDelete_AlreadyDeleted_ReturnsNotFound(t *testing.T) {
	svc := newTestService(&mockTodoRepo{})

	err := svc.Delete(context.Background(), "alice", "gone-id")
	if code := apiErrCode(t, err); code != model.ErrCodeTodoNotFound {
		t.Errorf("code = %q, want %q", code, model.ErrCodeTodoNotFound)
	}
}

func TestUpdate_RepositoryError_WrapsError(t *testing.T) {
	repo := &mockTodoRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Todo, error) {
			return nil, context.DeadlineExceeded
		},
	}
	svc := newTestService(repo)

	completed := true
	_, err := svc.Update(context.Background(), "alice", "todo-1", model.TodoPatch{Completed: &completed})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("store errors must not surface as APIError, got %v", apiErr)
	}
}
