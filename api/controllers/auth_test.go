package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/dmwangi/sokoni-backend/internal/accounts"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/firebase"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
)

type stubVerifier struct {
	identity firebase.Identity
	err      error
}

func (s stubVerifier) Verify(context.Context, string) (firebase.Identity, error) {
	return s.identity, s.err
}

type stubAccountsService struct {
	session *accounts.AuthSessionDTO
	pair    *accounts.TokenPairDTO
	err     error
}

func (s stubAccountsService) ResolveOrCreate(context.Context, firebase.Identity, accounts.ProfileInput) (*accounts.AuthSessionDTO, error) {
	return s.session, s.err
}

func (s stubAccountsService) Refresh(context.Context, string, string) (*accounts.TokenPairDTO, error) {
	return s.pair, s.err
}

func (s stubAccountsService) SignOut(context.Context, string) error {
	return s.err
}

func (s stubAccountsService) GetProfile(context.Context, uuid.UUID) (*accounts.AccountDTO, error) {
	return nil, s.err
}

func (s stubAccountsService) UpdateProfile(context.Context, uuid.UUID, accounts.UpdateProfileInput) (*accounts.AccountDTO, error) {
	return nil, s.err
}

func (s stubAccountsService) List(context.Context, pagination.Params) (*accounts.AccountListResult, error) {
	return nil, s.err
}

func (s stubAccountsService) SetRole(context.Context, uuid.UUID, enums.UserRole) (*accounts.AccountDTO, error) {
	return nil, s.err
}

func (s stubAccountsService) SetBanState(context.Context, uuid.UUID, bool, *string) (*accounts.AccountDTO, error) {
	return nil, s.err
}

func (s stubAccountsService) AdminStats(context.Context) (*accounts.AdminStatsDTO, error) {
	return nil, s.err
}

func TestAuthExchangeSuccess(t *testing.T) {
	session := &accounts.AuthSessionDTO{
		User: &accounts.AccountDTO{
			ID:    uuid.New(),
			Email: "buyer@example.com",
			Role:  string(enums.UserRoleUser),
		},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}
	handler := AuthExchange(
		stubVerifier{identity: firebase.Identity{UID: "fb-uid", Email: "buyer@example.com"}},
		stubAccountsService{session: session},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/firebase", bytes.NewReader([]byte(`{"id_token":"firebase-token"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Message string `json:"message"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
		StatusCode int `json:"statusCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload got %+v", envelope.Data)
	}
	if envelope.StatusCode != http.StatusOK {
		t.Fatalf("expected statusCode 200 got %d", envelope.StatusCode)
	}
}

func TestAuthExchangeRejectsBadIdentityToken(t *testing.T) {
	handler := AuthExchange(
		stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")},
		stubAccountsService{},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/firebase", bytes.NewReader([]byte(`{"id_token":"stale"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthExchangePropagatesBannedAccount(t *testing.T) {
	handler := AuthExchange(
		stubVerifier{identity: firebase.Identity{UID: "fb-uid", Email: "banned@example.com"}},
		stubAccountsService{err: pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")},
		nil,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/firebase", bytes.NewReader([]byte(`{"id_token":"firebase-token"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "account is banned" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestAuthExchangeRequiresIDToken(t *testing.T) {
	handler := AuthExchange(stubVerifier{}, stubAccountsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/firebase", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
