package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/roomtab/roomtab/internal/auth"
	"github.com/roomtab/roomtab/internal/service"
	"github.com/roomtab/roomtab/internal/storage/sqlite"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	server := NewServer(
		service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager),
		service.NewGroupService(store),
		service.NewLedgerService(store),
		service.NewNotifyService(store),
		service.NewGroceryService(store),
		jwtManager,
		"*",
	)
	return server.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func registerUser(t *testing.T, handler http.Handler, email, name string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "display_name": name, "password": "long-enough-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	return resp.Token
}

func TestExpenseFlow(t *testing.T) {
	handler := newTestServer(t)

	aliceToken := registerUser(t, handler, "alice@example.com", "Alice")
	bobToken := registerUser(t, handler, "bob@example.com", "Bob")

	// Alice creates the group, Bob joins.
	rec := doJSON(t, handler, http.MethodPost, "/api/groups", aliceToken, map[string]string{"name": "Maple St"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group returned %d: %s", rec.Code, rec.Body.String())
	}
	var group struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &group)

	rec = doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/join", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("join returned %d: %s", rec.Code, rec.Body.String())
	}

	// Fetch member IDs to build the split.
	rec = doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/members", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("members returned %d: %s", rec.Code, rec.Body.String())
	}
	var membersResp struct {
		Members []struct {
			ID          string `json:"id"`
			DisplayName string `json:"display_name"`
		} `json:"members"`
	}
	decodeBody(t, rec, &membersResp)
	if len(membersResp.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(membersResp.Members))
	}
	ids := make([]string, len(membersResp.Members))
	var aliceID string
	for i, m := range membersResp.Members {
		ids[i] = m.ID
		if m.DisplayName == "Alice" {
			aliceID = m.ID
		}
	}

	// Alice records an expense split between both.
	rec = doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/expenses", aliceToken, map[string]any{
		"title": "Groceries", "amount": "30.00", "participants": ids,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add expense returned %d: %s", rec.Code, rec.Body.String())
	}

	// Balance sheet shows Alice up 15.
	rec = doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/balances", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances returned %d: %s", rec.Code, rec.Body.String())
	}
	var sheet struct {
		Balances  map[string]string `json:"balances"`
		Transfers []struct {
			From   string `json:"from"`
			To     string `json:"to"`
			Amount string `json:"amount"`
		} `json:"transfers"`
	}
	decodeBody(t, rec, &sheet)
	if sheet.Balances[aliceID] != "15" {
		t.Errorf("alice balance = %s, want 15", sheet.Balances[aliceID])
	}
	if len(sheet.Transfers) != 1 || sheet.Transfers[0].To != aliceID {
		t.Errorf("transfers = %+v", sheet.Transfers)
	}

	// Settle up; afterwards the plan is empty and a settled notification exists.
	rec = doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/settlements", bobToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("settle returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/balances", aliceToken, nil)
	decodeBody(t, rec, &sheet)
	if len(sheet.Transfers) != 0 {
		t.Errorf("expected no transfers after settlement, got %+v", sheet.Transfers)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/notifications", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications returned %d: %s", rec.Code, rec.Body.String())
	}
	var feed struct {
		Notifications []struct {
			Type string `json:"type"`
		} `json:"notifications"`
		Unread int `json:"unread"`
	}
	decodeBody(t, rec, &feed)
	if len(feed.Notifications) != 2 {
		t.Errorf("expected 2 notifications (expense + settle), got %d", len(feed.Notifications))
	}
}

func TestGroceryFlow(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com", "Alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/groups", token, map[string]string{"name": "House"})
	var group struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &group)

	rec = doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/grocery", token, map[string]string{
		"text": "Milk", "qty": "2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item returned %d: %s", rec.Code, rec.Body.String())
	}
	var item struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &item)

	t.Run("empty text is rejected", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/grocery", token, map[string]string{
			"text": "  ",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("toggle and list", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPatch, "/api/groups/"+group.ID+"/grocery/"+item.ID, token, map[string]bool{
			"bought": true,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("patch returned %d: %s", rec.Code, rec.Body.String())
		}

		rec = doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/grocery", token, nil)
		var list struct {
			Items []struct {
				Text   string `json:"text"`
				Bought bool   `json:"bought"`
			} `json:"items"`
		}
		decodeBody(t, rec, &list)
		if len(list.Items) != 1 || !list.Items[0].Bought || list.Items[0].Text != "Milk" {
			t.Errorf("items = %+v", list.Items)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodDelete, "/api/groups/"+group.ID+"/grocery/"+item.ID, token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete returned %d: %s", rec.Code, rec.Body.String())
		}
		rec = doJSON(t, handler, http.MethodDelete, "/api/groups/"+group.ID+"/grocery/"+item.ID, token, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("second delete returned %d, want 404", rec.Code)
		}
	})
}

func TestAPIErrors(t *testing.T) {
	handler := newTestServer(t)
	aliceToken := registerUser(t, handler, "alice@example.com", "Alice")

	rec := doJSON(t, handler, http.MethodPost, "/api/groups", aliceToken, map[string]string{"name": "House"})
	var group struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &group)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/balances", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mallory := registerUser(t, handler, "mallory@example.com", "Mallory")
		rec := doJSON(t, handler, http.MethodGet, "/api/groups/"+group.ID+"/balances", mallory, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("invalid expense is a bad request", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/groups/"+group.ID+"/expenses", aliceToken, map[string]any{
			"title": "", "amount": "10.00",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "alice@example.com", "display_name": "Alice", "password": "long-enough-pass",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("health is public", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
