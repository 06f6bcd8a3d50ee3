package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adyen/storefront-e2e/internal/models"
)

func newTestStorefront(t *testing.T, mux *http.ServeMux) StorefrontClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewStorefrontClient(srv.URL, 2*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTPStorefrontClient_LoginKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "samuelhany500@gmail.com" || req.Password != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials."})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]string{"email": req.Email, "role": "admin"},
		})
	})
	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("token"); err != nil || c.Value != "jwt" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Unauthorized"})
			return
		}
		if r.PathValue("id") != "64f0c0ffee" {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product archived successfully"})
	})
	client := newTestStorefront(t, mux)
	ctx := context.Background()

	// GIVEN no session yet
	err := client.ArchiveProduct(ctx, "64f0c0ffee")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	// WHEN the admin logs in
	_, err = client.Login(ctx, models.Credential{Email: "samuelhany500@gmail.com", Password: "wrong"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials.", apiErr.Message)

	login, err := client.Login(ctx, models.Credential{Email: "samuelhany500@gmail.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", login.User.Role)

	// THEN later calls carry the cookie
	require.NoError(t, client.ArchiveProduct(ctx, "64f0c0ffee"))

	err = client.ArchiveProduct(ctx, "missing")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestHTTPStorefrontClient_ListProducts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"_id":"1","name":"Canvas Tote","category":"Women","price":85,"stock":4},
			{"_id":"2","name":"Selenium Test Bag","category":"Men","price":150,"stock":10,"isActive":false}
		]}`))
	})
	client := newTestStorefront(t, mux)

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Canvas Tote", products[0].Name)
	assert.True(t, products[0].Active())
	assert.Equal(t, 150.0, products[1].Price)
	assert.False(t, products[1].Active())
}

func TestHTTPStorefrontClient_Seed(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    map[string]any
		wantErr bool
	}{
		{
			name:   "seeded",
			status: http.StatusOK,
			body: map[string]any{
				"success": true,
				"message": "Database seeded successfully",
				"counts":  map[string]int{"products": 5, "users": 2, "orders": 2},
			},
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    map[string]any{"success": false, "error": "connection refused"},
			wantErr: true,
		},
		{
			name:    "ok status but unsuccessful",
			status:  http.StatusOK,
			body:    map[string]any{"success": false},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/seed", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			client := newTestStorefront(t, mux)

			got, err := client.Seed(context.Background())

			if tt.wantErr {
				var apiErr *APIError
				assert.ErrorAs(t, err, &apiErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SeedCounts{Products: 5, Users: 2, Orders: 2}, got.Counts)
		})
	}
}
