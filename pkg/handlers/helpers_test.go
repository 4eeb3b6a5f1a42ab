package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mehular0ra/pingme/pkg/store"
)

func TestWriteStoreErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrConflict, http.StatusConflict},
		{store.ErrUnauthorized, http.StatusForbidden},
		{store.ErrDeleted, http.StatusConflict},
		{fmt.Errorf("load user: %w", store.ErrNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeStoreError(rec, tc.err)
		if rec.Code != tc.status {
			t.Errorf("writeStoreError(%v) status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
	}
}

// Internal failures must not leak driver details to clients.
func TestWriteStoreErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeStoreError(rec, errors.New("pq: connection refused on 10.0.0.5"))

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "internal server error" {
		t.Errorf("error body = %q, want generic message", body.Error)
	}
}

func TestIsFourDigitCode(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, c := range valid {
		if !isFourDigitCode(c) {
			t.Errorf("isFourDigitCode(%q) = false, want true", c)
		}
	}
	invalid := []string{"", "123", "12345", "12a4", "12.4", "-123"}
	for _, c := range invalid {
		if isFourDigitCode(c) {
			t.Errorf("isFourDigitCode(%q) = true, want false", c)
		}
	}
}
