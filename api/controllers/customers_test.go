package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/stowage-backend/internal/customers"
	"github.com/angelmondragon/stowage-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stowage-backend/pkg/errors"
	"github.com/angelmondragon/stowage-backend/pkg/pagination"
	"github.com/angelmondragon/stowage-backend/pkg/types"
)

type stubCustomerService struct {
	dto *customers.CustomerDTO
	err error

	verifyStatus enums.VerificationStatus
	emailLookup  string
}

func (s *stubCustomerService) Create(_ context.Context, _ customers.CreateCustomerDTO) (*customers.CustomerDTO, error) {
	return s.dto, s.err
}

func (s *stubCustomerService) GetByID(_ context.Context, _ uuid.UUID) (*customers.CustomerDTO, error) {
	return s.dto, s.err
}

func (s *stubCustomerService) GetByEmail(_ context.Context, email string) (*customers.CustomerDTO, error) {
	s.emailLookup = email
	return s.dto, s.err
}

func (s *stubCustomerService) List(_ context.Context, _ pagination.Params) (pagination.Page[customers.CustomerDTO], error) {
	if s.err != nil {
		return pagination.Page[customers.CustomerDTO]{}, s.err
	}
	return pagination.Page[customers.CustomerDTO]{Items: []customers.CustomerDTO{*s.dto}}, nil
}

func (s *stubCustomerService) Update(_ context.Context, _ uuid.UUID, _ customers.UpdateCustomerInput) (*customers.CustomerDTO, error) {
	return s.dto, s.err
}

func (s *stubCustomerService) Verify(_ context.Context, _ uuid.UUID, status enums.VerificationStatus) (*customers.CustomerDTO, error) {
	s.verifyStatus = status
	return s.dto, s.err
}

func (s *stubCustomerService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func sampleCustomer() *customers.CustomerDTO {
	return &customers.CustomerDTO{
		ID:                 uuid.New(),
		Name:               "Acme Foods",
		Email:              "ops@acmefoods.example",
		VerificationStatus: enums.VerificationStatusPending,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
}

func routeWithParam(key, value string, req *http.Request) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCustomerCreateSuccess(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerCreate(svc, nil)

	body, _ := json.Marshal(map[string]string{
		"name":  "Acme Foods",
		"email": "ops@acmefoods.example",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
}

func TestCustomerCreateRejectsMissingEmail(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerCreate(svc, nil)

	body, _ := json.Marshal(map[string]string{"name": "Acme Foods"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestCustomerGetByEmailForwardsAddress(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerGetByEmail(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/email/ops@acmefoods.example", nil)
	req = routeWithParam("email", "ops@acmefoods.example", req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.emailLookup != "ops@acmefoods.example" {
		t.Fatalf("expected email forwarded, got %q", svc.emailLookup)
	}
}

func TestCustomerGetByEmailNotFound(t *testing.T) {
	svc := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	handler := CustomerGetByEmail(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/email/nobody@acmefoods.example", nil)
	req = routeWithParam("email", "nobody@acmefoods.example", req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCustomerGetInvalidID(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerGet(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/not-a-uuid", nil)
	req = routeWithParam("customerId", "not-a-uuid", req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestCustomerGetNotFound(t *testing.T) {
	svc := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	handler := CustomerGet(svc, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+id, nil)
	req = routeWithParam("customerId", id, req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestCustomerVerifyParsesStatus(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerVerify(svc, nil)

	id := uuid.NewString()
	body, _ := json.Marshal(map[string]string{"status": "VERIFIED"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+id+"/verify", bytes.NewReader(body))
	req = routeWithParam("customerId", id, req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.verifyStatus != enums.VerificationStatusVerified {
		t.Fatalf("expected VERIFIED forwarded, got %s", svc.verifyStatus)
	}
}

func TestCustomerVerifyRejectsUnknownStatus(t *testing.T) {
	svc := &stubCustomerService{dto: sampleCustomer()}
	handler := CustomerVerify(svc, nil)

	id := uuid.NewString()
	body, _ := json.Marshal(map[string]string{"status": "FROZEN"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+id+"/verify", bytes.NewReader(body))
	req = routeWithParam("customerId", id, req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestCustomerDeleteConflict(t *testing.T) {
	svc := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeConflict, "Cannot delete customer with existing warehouses")}
	handler := CustomerDelete(svc, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/customers/"+id, nil)
	req = routeWithParam("customerId", id, req)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}
