package handlers

import (
	"net/http"

	"github.com/crucial707/todo-api/internal/metrics"
	"github.com/crucial707/todo-api/internal/service"
)

// TodoHandler serves /todos. Every route expects RequireAuth in front of it.
type TodoHandler struct {
	Store *service.TodoStore
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

//
// ==========================
// Create Todo
// ==========================
//

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input createTodoRequest
	if err := decodeObject(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.Store.Create(r.Context(), userID, input.Title, input.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.IncTodoOp("create")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Todo created",
		"data":    todo,
	})
}

//
// ==========================
// List Todos
// ==========================
//

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todos, err := h.Store.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todos retrieved",
		"count":   len(todos),
		"data":    todos,
	})
}

//
// ==========================
// Get Todo By ID
// ==========================
//

func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := service.Owned(todo, userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo retrieved",
		"data":    todo,
	})
}

//
// ==========================
// Update Todo
// ==========================
//

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Member types are checked by the store once the todo is known to exist and be ours.
	fields, err := readObject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.Store.UpdateFields(r.Context(), id, userID, fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.IncTodoOp("update")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo updated",
		"data":    todo,
	})
}

//
// ==========================
// Delete Todo
// ==========================
//

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := todoID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	todo, err := h.Store.Delete(r.Context(), id, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.IncTodoOp("delete")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo deleted",
		"data":    todo,
	})
}
