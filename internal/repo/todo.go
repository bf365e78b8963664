package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/crucial707/todo-api/internal/models"
)

const todoColumns = `id, title, description, completed, user_id, created_at, updated_at`

// ========================
// REPOSITORY STRUCT
// ========================

type TodoRepo struct {
	DB DBTX
}

func NewTodoRepo(db DBTX) *TodoRepo {
	return &TodoRepo{DB: db}
}

// WithTx returns a TodoRepo whose queries run inside tx.
func (r *TodoRepo) WithTx(tx *sql.Tx) *TodoRepo {
	return &TodoRepo{DB: tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	t := &models.Todo{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ========================
// CREATE TODO
// ========================

// Create inserts a todo stamped with now for both created_at and updated_at.
func (r *TodoRepo) Create(ctx context.Context, userID int, title, description string, now time.Time) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO todos (title, description, completed, user_id, created_at, updated_at)
		 VALUES ($1, $2, false, $3, $4, $4)
		 RETURNING `+todoColumns,
		title, description, userID, now,
	)
	return scanTodo(row)
}

// ========================
// GET TODO BY ID
// ========================

// GetByID looks a todo up regardless of owner.
func (r *TodoRepo) GetByID(ctx context.Context, id int) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`,
		id,
	)
	return scanTodo(row)
}

// GetForUpdate is GetByID with a row lock; call it inside a transaction.
func (r *TodoRepo) GetForUpdate(ctx context.Context, id int) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 FOR UPDATE`,
		id,
	)
	return scanTodo(row)
}

// ========================
// LIST TODOS BY OWNER
// ========================

func (r *TodoRepo) ListByUser(ctx context.Context, userID int) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

// ========================
// UPDATE TODO
// ========================

// Update writes title, description, completed and updated_at of t back to its row.
func (r *TodoRepo) Update(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE todos
		 SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5
		 RETURNING `+todoColumns,
		t.Title, t.Description, t.Completed, t.UpdatedAt, t.ID,
	)
	return scanTodo(row)
}

// ========================
// DELETE TODO
// ========================

func (r *TodoRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
