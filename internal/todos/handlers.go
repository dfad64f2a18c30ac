package todos

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

// Routes registers the /todos endpoints on mux. The method switch and
// the Allow header on 405 live here so the whole HTTP surface is
// testable without the server wiring.
func Routes(mux *http.ServeMux, store Store) {
	listTodos := ListTodosHandler(store)
	createTodo := CreateTodoHandler(store)
	updateTodo := UpdateTodoHandler(store)
	deleteTodo := DeleteTodoHandler(store)
	reorderTodos := ReorderTodosHandler(store)

	mux.HandleFunc("/todos", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listTodos(w, r)
		case http.MethodPost:
			createTodo(w, r)
		case http.MethodPut:
			updateTodo(w, r)
		case http.MethodDelete:
			deleteTodo(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Allow", "GET, POST, PUT, DELETE")
			writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
		}
	})

	mux.HandleFunc("/todos/reorder", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			reorderTodos(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Allow", "POST")
			writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
		}
	})
}

func ListTodosHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := OrderByPosition
		if r.URL.Query().Get("order") == string(OrderByDueDate) {
			order = OrderByDueDate
		}

		list, err := store.List(r.Context(), order)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if list == nil {
			list = []Todo{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreateTodoHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text    string `json:"text"`
			DueDate *Date  `json:"due_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(body.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		t, err := store.Create(r.Context(), body.Text, body.DueDate)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func UpdateTodoHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// due_date needs three states: absent, null, set. Raw
		// message keeps "absent" and "null" apart.
		var body struct {
			ID          *int            `json:"id"`
			Text        *string         `json:"text"`
			IsCompleted *bool           `json:"is_completed"`
			DueDate     json.RawMessage `json:"due_date"`
			Position    *int            `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.ID == nil {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		patch := Patch{
			Text:        body.Text,
			IsCompleted: body.IsCompleted,
			Position:    body.Position,
		}
		if len(body.DueDate) > 0 {
			if string(body.DueDate) == "null" {
				patch.ClearDueDate = true
			} else {
				var d Date
				if err := json.Unmarshal(body.DueDate, &d); err != nil {
					writeError(w, http.StatusBadRequest, "invalid due_date")
					return
				}
				patch.DueDate = &d
			}
		}

		t, err := store.Update(r.Context(), *body.ID, patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func DeleteTodoHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID *int `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.ID == nil {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		if err := store.Delete(r.Context(), *body.ID); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ReorderTodosHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Todos json.RawMessage `json:"todos"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		trimmed := strings.TrimSpace(string(body.Todos))
		if trimmed == "" || trimmed[0] != '[' {
			writeError(w, http.StatusBadRequest, `"todos" array is required`)
			return
		}

		var entries []PositionEntry
		if err := json.Unmarshal(body.Todos, &entries); err != nil {
			writeError(w, http.StatusBadRequest, `"todos" array is malformed`)
			return
		}
		if len(entries) == 0 {
			writeError(w, http.StatusBadRequest, `"todos" array is empty`)
			return
		}

		if err := store.Reposition(r.Context(), entries); err != nil {
			writeStoreError(w, err)
			return
		}
		// The caller already holds the reordered list; acknowledging
		// is enough.
		writeJSON(w, http.StatusOK, map[string]string{"message": "Tasks reordered successfully"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeStoreError maps the store error taxonomy onto HTTP codes. The
// server never retries a failed store call, it reports and moves on.
func writeStoreError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Msg)
		return
	}
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "todo not found")
		return
	}
	log.Printf("[WARN] store error: %v", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
