package model

import "time"

// Todo はユーザーが所有するタスクを表す。
// OwnerIDは作成時に確定し、以後変更されない（所有権の移譲操作は存在しない）。
type Todo struct {
	ID        string
	OwnerID   string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch はTodoの部分更新を表す。
// nilのフィールドは更新対象外とし、既存の値を維持する。
type TodoPatch struct {
	Title     *string
	Completed *bool
}
