package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmwangi/sokoni-backend/api/middleware"
	productsvc "github.com/dmwangi/sokoni-backend/internal/products"
	pkgauth "github.com/dmwangi/sokoni-backend/pkg/auth"
	"github.com/dmwangi/sokoni-backend/pkg/enums"
	pkgerrors "github.com/dmwangi/sokoni-backend/pkg/errors"
	"github.com/dmwangi/sokoni-backend/pkg/pagination"
)

type stubProductsService struct {
	product *productsvc.ProductDTO
	list    *productsvc.ProductListResult
	err     error

	decidedAction enums.ModerationAction
}

func (s *stubProductsService) Create(context.Context, pkgauth.Actor, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) GetByID(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) ListApproved(context.Context, *string, pagination.Params) (*productsvc.ProductListResult, error) {
	return s.list, s.err
}

func (s *stubProductsService) ListPending(context.Context) ([]productsvc.ProductDTO, error) {
	return nil, s.err
}

func (s *stubProductsService) ListForVendor(context.Context, uuid.UUID) ([]productsvc.ProductDTO, error) {
	return nil, s.err
}

func (s *stubProductsService) UpdatePrice(context.Context, pkgauth.Actor, uuid.UUID, decimal.Decimal) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) UpdateDetails(context.Context, pkgauth.Actor, uuid.UUID, productsvc.UpdateDetailsInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) SetAvailability(context.Context, pkgauth.Actor, uuid.UUID, enums.Availability) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductsService) Delete(context.Context, pkgauth.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubProductsService) Decide(_ context.Context, _ uuid.UUID, action enums.ModerationAction) (*productsvc.ProductDTO, error) {
	s.decidedAction = action
	return s.product, s.err
}

func (s *stubProductsService) VendorStats(context.Context, uuid.UUID) (*productsvc.VendorStatsDTO, error) {
	return nil, s.err
}

func requestWithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAdminDecideProduct(t *testing.T) {
	svc := &stubProductsService{product: &productsvc.ProductDTO{ID: uuid.New()}}
	handler := AdminDecideProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/x/decision", bytes.NewReader([]byte(`{"action":"approve"}`)))
	req = requestWithURLParam(req, "productId", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.decidedAction != enums.ModerationActionApprove {
		t.Fatalf("expected approve action, got %s", svc.decidedAction)
	}
}

func TestAdminDecideProductRejectsUnknownAction(t *testing.T) {
	svc := &stubProductsService{}
	handler := AdminDecideProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/x/decision", bytes.NewReader([]byte(`{"action":"snooze"}`)))
	req = requestWithURLParam(req, "productId", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminDecideProductMapsStateConflict(t *testing.T) {
	svc := &stubProductsService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "already rejected")}
	handler := AdminDecideProduct(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products/x/decision", bytes.NewReader([]byte(`{"action":"approve"}`)))
	req = requestWithURLParam(req, "productId", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestVendorCreateProductRequiresActor(t *testing.T) {
	svc := &stubProductsService{}
	handler := VendorCreateProduct(svc, nil)

	body := []byte(`{"name":"Basket","description":"Woven","category":"crafts","price":"24.50","stock_quantity":3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor got %d", resp.Code)
	}
}

func TestVendorCreateProductSuccess(t *testing.T) {
	svc := &stubProductsService{product: &productsvc.ProductDTO{ID: uuid.New(), Name: "Basket"}}
	handler := VendorCreateProduct(svc, nil)

	body := []byte(`{"name":"Basket","description":"Woven","category":"crafts","price":"24.50","stock_quantity":3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vendor/products", bytes.NewReader(body))
	actor := pkgauth.Actor{ID: uuid.New(), Role: enums.UserRoleVendor}
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Basket" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}
