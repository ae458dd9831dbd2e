package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastel22/boondocks-bn-backend/internal/dto"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestSignin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/signin", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		var req dto.SigninRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "password123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"status": "error", "code": "UNAUTHORIZED", "message": "Invalid email or password",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "User logged in successfully",
			"data":    dto.SigninResponse{ID: 7, Email: req.Email, Token: "access-token", IsVerified: true},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nil)

	resp, err := c.Signin("jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(7), resp.ID)
	assert.Equal(t, "access-token", resp.Token)

	_, err = c.Signin("jane@example.com", "nope")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "Unauthorized"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status": "success",
				"data":   []map[string]interface{}{{"id": 1, "hotelId": 2, "roomId": 3}},
			})
		case http.MethodPost:
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"status":  "error",
				"code":    "VALIDATION_ERROR",
				"message": `"arrivalDate" is required`,
				"errors":  []map[string]string{{"field": "arrivalDate", "message": `"arrivalDate" is required`}},
			})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nil)
	_, err := c.ListBookings()
	assert.True(t, IsUnauthorized(err))

	c.SetToken("tok")
	bookings, err := c.ListBookings()
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, uint(3), bookings[0].RoomID)

	_, err = c.CreateBooking(dto.BookingRequest{HotelID: 2, Rooms: []uint{3}})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "arrivalDate", apiErr.Errors[0].Field)

	c.SetToken("")
	_, err = c.ListBookings()
	assert.True(t, IsUnauthorized(err))
}

func TestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, nil).Me()
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barefoot", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8787", cfg.BaseURL())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Empty(t, cfg.Token())

	require.NoError(t, cfg.SaveSession("jane@example.com", "tok"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.Token())
	assert.Equal(t, "jane@example.com", reloaded.Email())

	t.Setenv("BAREFOOT_API_BASE_URL", "https://api.example.com")
	assert.Equal(t, "https://api.example.com", reloaded.BaseURL())

	require.NoError(t, reloaded.ClearSession())
	reloaded, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Token())
}
