package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/database"
	"github.com/taskloop/taskloop/internal/middleware"
	"github.com/taskloop/taskloop/internal/models"
	"go.uber.org/zap"
)

// newTaskRouter wires a TaskHandler against an in-memory store under the
// same path layout the server uses.
func newTaskRouter(store database.TaskStore, opts ...TaskHandlerOption) *mux.Router {
	r := mux.NewRouter()
	handler := NewTaskHandler(store, zap.NewNop(), opts...)
	handler.RegisterRoutes(r.PathPrefix("/api/v1/users/{userID}/tasks").Subrouter())
	return r
}

// doAs performs a request with the given identity already authenticated.
func doAs(router *mux.Router, identity auth.Identity, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(middleware.SetIdentityInContext(context.Background(), identity))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (body: %s)", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got: %s", rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
}

func TestTaskHandler_CRUDLifecycle(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	ownerID := uuid.New()
	identity := auth.Identity{Subject: ownerID.String(), Email: "o@example.com"}
	base := fmt.Sprintf("/api/v1/users/%s/tasks", ownerID)

	// Create
	rec := doAs(router, identity, http.MethodPost, base, CreateTaskRequest{Title: "buy milk"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created models.Task
	decodeData(t, rec, &created)
	if created.Title != "buy milk" || created.OwnerID != ownerID || created.Completed {
		t.Errorf("unexpected created task: %+v", created)
	}

	// List
	rec = doAs(router, identity, http.MethodGet, base, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []models.Task
	decodeData(t, rec, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("unexpected list: %+v", listed)
	}

	// Get
	rec = doAs(router, identity, http.MethodGet, base+"/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Update title
	newTitle := "buy oat milk"
	rec = doAs(router, identity, http.MethodPatch, base+"/"+created.ID.String(), UpdateTaskRequest{Title: &newTitle})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var updated models.Task
	decodeData(t, rec, &updated)
	if updated.Title != newTitle {
		t.Errorf("updated title = %q, want %q", updated.Title, newTitle)
	}

	// Toggle complete
	rec = doAs(router, identity, http.MethodPost, base+"/"+created.ID.String()+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var toggled models.Task
	decodeData(t, rec, &toggled)
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Errorf("expected completed task, got: %+v", toggled)
	}

	// Delete
	rec = doAs(router, identity, http.MethodDelete, base+"/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doAs(router, identity, http.MethodGet, base+"/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

// TestTaskHandler_CrossOwner404 verifies the information-hiding contract:
// a task that exists under another owner and a task that does not exist at
// all produce byte-identical 404 responses (modulo timestamp), and never a
// 403.
func TestTaskHandler_CrossOwner404(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	aliceID := uuid.New()
	bobID := uuid.New()
	alice := auth.Identity{Subject: aliceID.String()}
	bob := auth.Identity{Subject: bobID.String()}

	// Alice creates a task.
	rec := doAs(router, alice, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/tasks", aliceID), CreateTaskRequest{Title: "alice's secret"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created models.Task
	decodeData(t, rec, &created)

	normalize := func(rec *httptest.ResponseRecorder) string {
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("404 body is not JSON: %s", rec.Body.String())
		}
		delete(body, "timestamp")
		out, _ := json.Marshal(body)
		return string(out)
	}

	// Bob probes Alice's resource through her path.
	viaAlicePath := doAs(router, bob, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/tasks/%s", aliceID, created.ID), nil)
	// Bob probes Alice's task id under his own path.
	viaOwnPath := doAs(router, bob, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/tasks/%s", bobID, created.ID), nil)
	// Bob asks for a task that exists nowhere.
	missing := doAs(router, bob, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/tasks/%s", bobID, uuid.New()), nil)

	for name, probe := range map[string]*httptest.ResponseRecorder{
		"cross-owner path": viaAlicePath,
		"foreign task id":  viaOwnPath,
		"missing task":     missing,
	} {
		if probe.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404 (never 403)", name, probe.Code)
		}
	}

	if normalize(viaAlicePath) != normalize(missing) || normalize(viaOwnPath) != normalize(missing) {
		t.Errorf("404 bodies are distinguishable:\n%s\n%s\n%s",
			normalize(viaAlicePath), normalize(viaOwnPath), normalize(missing))
	}
}

func TestTaskHandler_CrossOwnerWrites404(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	aliceID := uuid.New()
	bobID := uuid.New()
	alice := auth.Identity{Subject: aliceID.String()}
	bob := auth.Identity{Subject: bobID.String()}

	rec := doAs(router, alice, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/tasks", aliceID), CreateTaskRequest{Title: "untouchable"})
	var created models.Task
	decodeData(t, rec, &created)

	alicePath := fmt.Sprintf("/api/v1/users/%s/tasks/%s", aliceID, created.ID)
	title := "defaced"

	if rec := doAs(router, bob, http.MethodPatch, alicePath, UpdateTaskRequest{Title: &title}); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner update status = %d, want 404", rec.Code)
	}
	if rec := doAs(router, bob, http.MethodDelete, alicePath, nil); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner delete status = %d, want 404", rec.Code)
	}
	if rec := doAs(router, bob, http.MethodPost, alicePath+"/complete", nil); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner toggle status = %d, want 404", rec.Code)
	}
	if rec := doAs(router, bob, http.MethodPost, fmt.Sprintf("/api/v1/users/%s/tasks", aliceID), CreateTaskRequest{Title: "planted"}); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner create status = %d, want 404", rec.Code)
	}

	// The task is untouched.
	if rec := doAs(router, alice, http.MethodGet, alicePath, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner get status = %d", rec.Code)
	}
	var after models.Task
	decodeData(t, doAs(router, alice, http.MethodGet, alicePath, nil), &after)
	if after.Title != "untouchable" || after.Completed {
		t.Errorf("task was modified by cross-owner requests: %+v", after)
	}
}

func TestTaskHandler_UpdateCompletionTimestamp(t *testing.T) {
	t.Parallel()

	fixed := time.Unix(1700000000, 0)
	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store, WithTaskClock(func() time.Time { return fixed }))

	ownerID := uuid.New()
	identity := auth.Identity{Subject: ownerID.String()}
	base := fmt.Sprintf("/api/v1/users/%s/tasks", ownerID)

	rec := doAs(router, identity, http.MethodPost, base, CreateTaskRequest{Title: "stamp me"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created models.Task
	decodeData(t, rec, &created)

	// Completing through PATCH stamps CompletedAt from the injected clock.
	completed := true
	rec = doAs(router, identity, http.MethodPatch, base+"/"+created.ID.String(), UpdateTaskRequest{Completed: &completed})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var updated models.Task
	decodeData(t, rec, &updated)
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(fixed) {
		t.Errorf("CompletedAt = %v, want %v", updated.CompletedAt, fixed)
	}

	// Un-completing clears it again.
	uncompleted := false
	rec = doAs(router, identity, http.MethodPatch, base+"/"+created.ID.String(), UpdateTaskRequest{Completed: &uncompleted})
	if rec.Code != http.StatusOK {
		t.Fatalf("second update status = %d", rec.Code)
	}
	var cleared models.Task
	decodeData(t, rec, &cleared)
	if cleared.CompletedAt != nil {
		t.Errorf("CompletedAt after un-completing = %v, want nil", cleared.CompletedAt)
	}
}

func TestTaskHandler_Validation(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	ownerID := uuid.New()
	identity := auth.Identity{Subject: ownerID.String()}
	base := fmt.Sprintf("/api/v1/users/%s/tasks", ownerID)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "empty title", body: CreateTaskRequest{Title: ""}, wantStatus: http.StatusBadRequest},
		{name: "whitespace title", body: CreateTaskRequest{Title: "   "}, wantStatus: http.StatusBadRequest},
		{name: "control characters only", body: CreateTaskRequest{Title: "\x00\x01\x02"}, wantStatus: http.StatusBadRequest},
		{name: "valid title", body: CreateTaskRequest{Title: "ok"}, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAs(router, identity, http.MethodPost, base, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestTaskHandler_UnauthenticatedContext(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	// No identity in context at all (middleware bypassed).
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/users/%s/tasks", uuid.New()), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestTaskHandler_InvalidTaskID404(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryTaskStore()
	router := newTaskRouter(store)

	ownerID := uuid.New()
	identity := auth.Identity{Subject: ownerID.String()}

	rec := doAs(router, identity, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/tasks/not-a-uuid", ownerID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
