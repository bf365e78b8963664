package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/crucial707/todo-api/internal/models"
	"github.com/crucial707/todo-api/internal/repo"
)

// TodoStore holds the todo rules: field validation, ownership and
// transactional read-check-write for updates and deletes.
type TodoStore struct {
	DB   *sql.DB
	Repo *repo.TodoRepo
	Now  func() time.Time
}

func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{DB: db, Repo: repo.NewTodoRepo(db), Now: time.Now}
}

func todoNotFound(id int) *Error {
	return NotFoundError(fmt.Sprintf("Todo %d was not found.", id))
}

// Create stores a new, not yet completed todo for ownerID. created_at and
// updated_at come from s.Now, the same clock Update uses.
func (s *TodoStore) Create(ctx context.Context, ownerID int, title, description string) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if err := checkTitle(title); err != nil {
		return nil, err
	}

	todo, err := s.Repo.Create(ctx, ownerID, title, description, s.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// List returns every todo owned by ownerID, oldest first.
func (s *TodoStore) List(ctx context.Context, ownerID int) ([]models.Todo, error) {
	todos, err := s.Repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get fetches a todo by id regardless of owner. Callers check ownership
// with Owned so that "missing" and "not yours" stay distinguishable.
func (s *TodoStore) Get(ctx context.Context, id int) (*models.Todo, error) {
	todo, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, todoNotFound(id)
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// Owned returns ErrTodoForbidden unless todo belongs to ownerID.
func Owned(todo *models.Todo, ownerID int) error {
	if todo.UserID != ownerID {
		return ErrTodoForbidden
	}
	return nil
}

// Update applies the fields present in patch. The row is locked, checked
// for existence and ownership, then validated and written in one transaction.
func (s *TodoStore) Update(ctx context.Context, id, ownerID int, patch models.TodoPatch) (*models.Todo, error) {
	return s.update(ctx, id, ownerID, func() (models.TodoPatch, error) { return patch, nil })
}

// UpdateFields is Update for a raw JSON object. The members are decoded into
// a TodoPatch only after the existence and ownership checks, so a missing or
// foreign todo answers 404 or 403 whatever the body holds.
func (s *TodoStore) UpdateFields(ctx context.Context, id, ownerID int, fields map[string]json.RawMessage) (*models.Todo, error) {
	return s.update(ctx, id, ownerID, func() (models.TodoPatch, error) {
		var patch models.TodoPatch
		err := DecodeFields(fields, &patch)
		return patch, err
	})
}

func (s *TodoStore) update(ctx context.Context, id, ownerID int, decode func() (models.TodoPatch, error)) (*models.Todo, error) {
	var out *models.Todo
	err := s.inTx(ctx, func(r *repo.TodoRepo) error {
		todo, err := s.lockOwned(ctx, r, id, ownerID)
		if err != nil {
			return err
		}

		patch, err := decode()
		if err != nil {
			return err
		}
		if patch.Empty() {
			return ErrNoData
		}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if err := checkTitle(title); err != nil {
				return err
			}
			todo.Title = title
		}
		if patch.Description != nil {
			todo.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Completed != nil {
			todo.Completed = *patch.Completed
		}
		todo.UpdatedAt = s.Now().UTC()

		out, err = r.Update(ctx, todo)
		if err != nil {
			return fmt.Errorf("update todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the todo and returns it as it was before deletion.
func (s *TodoStore) Delete(ctx context.Context, id, ownerID int) (*models.Todo, error) {
	var out *models.Todo
	err := s.inTx(ctx, func(r *repo.TodoRepo) error {
		todo, err := s.lockOwned(ctx, r, id, ownerID)
		if err != nil {
			return err
		}
		if err := r.Delete(ctx, id); err != nil {
			if repo.IsNotFound(err) {
				return todoNotFound(id)
			}
			return fmt.Errorf("delete todo: %w", err)
		}
		out = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TodoStore) lockOwned(ctx context.Context, r *repo.TodoRepo, id, ownerID int) (*models.Todo, error) {
	todo, err := r.GetForUpdate(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, todoNotFound(id)
		}
		return nil, fmt.Errorf("lock todo: %w", err)
	}
	if err := Owned(todo, ownerID); err != nil {
		return nil, err
	}
	return todo, nil
}

// inTx runs fn in a transaction, committing on success and rolling back
// on any error or panic.
func (s *TodoStore) inTx(ctx context.Context, fn func(r *repo.TodoRepo) error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(s.Repo.WithTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
