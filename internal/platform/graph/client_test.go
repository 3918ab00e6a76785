package graph

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(loginBase, graphBase string) *Client {
	return &Client{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		Mailbox:      "hr@example.com",
		LoginBase:    loginBase,
		GraphBase:    graphBase,
		HTTP:         &http.Client{Timeout: 5 * time.Second},
	}
}

func TestListUsersPaginates(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/tenant/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Fatalf("unexpected grant type %q", r.PostForm.Get("grant_type"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value":           []map[string]string{{"mail": "a@example.com"}},
			"@odata.nextLink": server.URL + "/users-page2",
		})
	})
	mux.HandleFunc("/users-page2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]string{{"userPrincipalName": "b@example.com"}},
		})
	})

	client := newTestClient(server.URL, server.URL)
	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Mail != "a@example.com" || users[1].UserPrincipalName != "b@example.com" {
		t.Fatalf("unexpected users: %+v", users)
	}

	// Token should be cached across calls.
	if _, err := client.ListUsers(context.Background()); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if tokenCalls != 1 {
		t.Fatalf("expected 1 token call, got %d", tokenCalls)
	}
}

func TestListUsersTokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tenant/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	_, err := client.ListUsers(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Op != "token" || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error detail: %+v", apiErr)
	}
}

func TestSendMail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tenant/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	var got mailMessage
	mux.HandleFunc("/users/hr@example.com/sendMail", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode mail: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	if err := client.SendMail(context.Background(), "jo@example.com", "Welcome", "<p>hello</p>"); err != nil {
		t.Fatalf("send mail: %v", err)
	}
	if got.Message.Subject != "Welcome" {
		t.Fatalf("unexpected subject %q", got.Message.Subject)
	}
	if got.Message.ToRecipients[0].EmailAddress.Address != "jo@example.com" {
		t.Fatalf("unexpected recipient: %+v", got.Message.ToRecipients)
	}
	if got.Message.Body.ContentType != "HTML" {
		t.Fatalf("expected HTML body, got %s", got.Message.Body.ContentType)
	}
}

func TestSendMailRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tenant/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/users/hr@example.com/sendMail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	err := client.SendMail(context.Background(), "jo@example.com", "Welcome", "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Op != "send_mail" {
		t.Fatalf("expected send_mail APIError, got %v", err)
	}
}
