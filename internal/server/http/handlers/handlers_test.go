package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/server/http/dto"
	"github.com/okonev/orderdesk/internal/server/http/middleware"
	testhelpers "github.com/okonev/orderdesk/internal/test"
	"github.com/okonev/orderdesk/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asActor(id int64, role model.Role) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.ActorContextKey, model.Actor{ID: &id, Username: "tester", Role: role})
	}
}

type multipartPayload struct {
	fields map[string]string
	files  map[string][]byte
}

func encodeMultipart(t *testing.T, payload multipartPayload) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range payload.fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, data := range payload.files {
		part, err := writer.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return buf.Bytes(), writer.FormDataContentType()
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got.ID != nil || got.Role != "" {
		t.Fatalf("expected zero actor when not set, got %+v", got)
	}

	id := int64(42)
	c.Set(middleware.ActorContextKey, model.Actor{ID: &id, Username: "alice", Role: model.RoleAdmin})
	actor := CurrentActor(c)
	if actor.ID == nil || *actor.ID != 42 || actor.Username != "alice" || !actor.IsAdmin() {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	body, _ := json.Marshal(dto.RegisterRequest{Email: "a@b.com", Username: "alice", Password: "secret1"})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, email, username, password string) (*model.User, string, error) {
		if email != "a@b.com" || username != "alice" || password != "secret1" {
			t.Fatalf("unexpected credentials passed to facade: %q %q %q", email, username, password)
		}
		return &model.User{ID: 7, Email: email, Username: username, Role: model.RoleUser}, "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.AuthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Token != "session-token" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.User.ID != 7 || payload.User.Email != "a@b.com" || payload.User.Role != "user" {
		t.Fatalf("unexpected user %+v", payload.User)
	}

	result := resp.Result()
	t.Cleanup(func() { _ = result.Body.Close() })
	found := false
	for _, cookie := range result.Cookies() {
		if cookie.Name == "orderdesk_token" {
			if cookie.Value != "session-token" {
				t.Fatalf("unexpected token stored in cookie: %q", cookie.Value)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("expected auth cookie named orderdesk_token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{
			name:   "malformed json",
			body:   []byte("{"),
			status: http.StatusBadRequest,
		},
		{
			name:   "missing fields",
			body:   mustJSON(t, dto.RegisterRequest{Email: "a@b.com"}),
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid email",
			body:   mustJSON(t, dto.RegisterRequest{Email: "nope", Username: "alice", Password: "secret1"}),
			status: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, string, error) {
				return nil, "", domainErrors.ErrAlreadyExists
			}},
			body:   mustJSON(t, dto.RegisterRequest{Email: "a@b.com", Username: "alice", Password: "secret1"}),
			status: http.StatusConflict,
		},
		{
			name: "storage failure",
			facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, string) (*model.User, string, error) {
				return nil, "", errors.New("boom")
			}},
			body:   mustJSON(t, dto.RegisterRequest{Email: "a@b.com", Username: "alice", Password: "secret1"}),
			status: http.StatusInternalServerError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tc.facade).Register, nil, tc.body, map[string]string{"Content-Type": "application/json"})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "a@b.com", Password: "secret1"})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(ctx context.Context, email, password string) (*model.User, string, error) {
		return &model.User{ID: 7, Email: email, Username: "alice", Role: model.RoleAdmin}, "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload dto.AuthResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Token != "session-token" || payload.User.Role != "admin" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "a@b.com", Password: "wrong"})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.User, string, error) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}})
	resp := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	body, contentType := encodeMultipart(t, multipartPayload{
		fields: map[string]string{
			"amazonOrderNo": "111-222",
			"orderName":     "Widget",
			"buyerName":     "Bob",
			"buyerPaypal":   "bob@pp.com",
			"comment":       "first order",
			"sheetName":     "August",
		},
		files: map[string][]byte{
			orderScreenshotField:   []byte("order-bytes"),
			productScreenshotField: []byte("product-bytes"),
		},
	})

	var gotInput usecase.CreateOrderInput
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CreateFn: func(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error) {
		gotInput = input
		if actor.ID == nil || *actor.ID != 5 {
			t.Fatalf("unexpected actor %+v", actor)
		}
		return &model.Order{ID: 10, UserID: 5, OrderName: input.OrderName, Status: model.StatusOrdered}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, asActor(5, model.RoleUser), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	if gotInput.AmazonOrderNo != "111-222" || gotInput.OrderName != "Widget" || gotInput.SheetName != "August" {
		t.Fatalf("unexpected input %+v", gotInput)
	}
	if gotInput.OrderSS == nil || string(gotInput.OrderSS.Data) != "order-bytes" {
		t.Fatal("expected order screenshot bytes to be forwarded")
	}
	if gotInput.ProductSS == nil || string(gotInput.ProductSS.Data) != "product-bytes" {
		t.Fatal("expected product screenshot bytes to be forwarded")
	}

	var payload struct {
		Success bool              `json:"success"`
		Order   dto.OrderResponse `json:"order"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Order.ID != 10 || payload.Order.Status != string(model.StatusOrdered) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestOrderHandlerCreateRejectsIncompleteForm(t *testing.T) {
	body, contentType := encodeMultipart(t, multipartPayload{
		fields: map[string]string{"orderName": "Widget"},
	})
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(testhelpers.OrderFacadeStub{}).Create, asActor(5, model.RoleUser), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerChangeStatus(t *testing.T) {
	body, contentType := encodeMultipart(t, multipartPayload{
		fields: map[string]string{"status": "SENT_TO_SELLER"},
	})
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{ChangeFn: func(ctx context.Context, actor model.Actor, orderID int64, status string, patch model.OrderPatch) (*model.Order, error) {
		if orderID != 33 || status != "SENT_TO_SELLER" {
			t.Fatalf("unexpected transition request id=%d status=%q", orderID, status)
		}
		if !patch.Empty() {
			t.Fatalf("expected empty patch, got %+v", patch)
		}
		return &model.Order{ID: orderID, Status: model.StatusSentToSeller}, nil
	}})

	resp := performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/33/status", handler.ChangeStatus, asActor(1, model.RoleAdmin), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOrderHandlerChangeStatusUploadsReviewScreenshot(t *testing.T) {
	body, contentType := encodeMultipart(t, multipartPayload{
		fields: map[string]string{"status": "REVIEWED"},
		files:  map[string][]byte{reviewScreenshotField: []byte("review-bytes")},
	})

	uploaded := false
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{
		UploadFn: func(ctx context.Context, kind string, shot usecase.Screenshot) (string, error) {
			if kind != "screenshots/review" || string(shot.Data) != "review-bytes" {
				t.Fatalf("unexpected upload kind=%q data=%q", kind, shot.Data)
			}
			uploaded = true
			return "https://cdn.test/screenshots/review/abc.png", nil
		},
		ChangeFn: func(ctx context.Context, actor model.Actor, orderID int64, status string, patch model.OrderPatch) (*model.Order, error) {
			if patch.ReviewSS == nil || *patch.ReviewSS != "https://cdn.test/screenshots/review/abc.png" {
				t.Fatalf("expected review URL on the patch, got %+v", patch)
			}
			return &model.Order{ID: orderID, Status: model.StatusReviewed}, nil
		},
	})

	resp := performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/33/status", handler.ChangeStatus, asActor(1, model.RoleUser), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !uploaded {
		t.Fatal("expected review screenshot upload")
	}
}

func TestOrderHandlerChangeStatusRejectsRefundProofFromUser(t *testing.T) {
	body, contentType := encodeMultipart(t, multipartPayload{
		fields: map[string]string{"status": "REFUND_COMPLETED"},
		files:  map[string][]byte{refundScreenshotField: []byte("refund-bytes")},
	})
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{UploadFn: func(context.Context, string, usecase.Screenshot) (string, error) {
		t.Fatal("upload must not run for a non-admin refund proof")
		return "", nil
	}})

	resp := performRequest(t, http.MethodPatch, "/orders/:id/status", "/orders/33/status", handler.ChangeStatus, asActor(1, model.RoleUser), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestOrderHandlerChangeStatusFailures(t *testing.T) {
	okBody, okContentType := encodeMultipart(t, multipartPayload{fields: map[string]string{"status": "ORDERED"}})
	emptyBody, emptyContentType := encodeMultipart(t, multipartPayload{fields: map[string]string{"commission": "1.5"}})

	tests := []struct {
		name        string
		target      string
		body        []byte
		contentType string
		err         error
		status      int
	}{
		{name: "invalid id", target: "/orders/abc/status", body: okBody, contentType: okContentType, status: http.StatusBadRequest},
		{name: "missing status", target: "/orders/33/status", body: emptyBody, contentType: emptyContentType, status: http.StatusBadRequest},
		{
			name: "transition denied", target: "/orders/33/status", body: okBody, contentType: okContentType,
			err:    &domainErrors.InvalidTransitionError{Role: model.RoleUser, Requested: "ORDERED", Allowed: []model.OrderStatus{model.StatusReviewed}},
			status: http.StatusBadRequest,
		},
		{name: "not owner", target: "/orders/33/status", body: okBody, contentType: okContentType, err: domainErrors.ErrNotOwner, status: http.StatusForbidden},
		{name: "not found", target: "/orders/33/status", body: okBody, contentType: okContentType, err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{name: "version conflict", target: "/orders/33/status", body: okBody, contentType: okContentType, err: domainErrors.ErrVersionConflict, status: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewOrderHandler(testhelpers.OrderFacadeStub{ChangeFn: func(context.Context, model.Actor, int64, string, model.OrderPatch) (*model.Order, error) {
				return nil, tc.err
			}})
			resp := performRequest(t, http.MethodPatch, "/orders/:id/status", tc.target, handler.ChangeStatus, asActor(1, model.RoleUser), tc.body, map[string]string{"Content-Type": tc.contentType})
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	changedBy := int64(2)
	due := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{DetailFn: func(ctx context.Context, actor model.Actor, orderID int64) (*model.OrderDetail, error) {
		return &model.OrderDetail{
			Order: model.Order{ID: orderID, UserID: 5, OrderName: "Widget", Status: model.StatusReviewAwaited, NextStatusAt: &due},
			Owner: model.UserSummary{ID: 5, Email: "a@b.com", Username: "alice"},
			Sheet: &model.SheetSummary{ID: 3, Name: "August"},
			History: []model.StatusChange{
				{ID: 1, OrderID: orderID, PreviousStatus: model.StatusOrdered, NewStatus: model.StatusReviewAwaited, ChangedBy: &changedBy, Role: model.RoleAdmin},
			},
			Comments: []model.Comment{
				{ID: 1, OrderID: orderID, Comment: "looks good", CommentedBy: 5, Role: model.RoleUser},
			},
		}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/10", handler.Get, asActor(5, model.RoleUser), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.OrderDetailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Order.ID != 10 || payload.Order.Status != string(model.StatusReviewAwaited) {
		t.Fatalf("unexpected order %+v", payload.Order)
	}
	if payload.Order.Owner == nil || payload.Order.Owner.Username != "alice" {
		t.Fatalf("expected owner summary, got %+v", payload.Order.Owner)
	}
	if payload.Order.Sheet == nil || payload.Order.Sheet.Name != "August" {
		t.Fatalf("expected sheet ref, got %+v", payload.Order.Sheet)
	}
	if payload.Order.NextStatusAt == nil {
		t.Fatal("expected automation due timestamp")
	}
	if len(payload.History) != 1 || payload.History[0].NewStatus != string(model.StatusReviewAwaited) {
		t.Fatalf("unexpected history %+v", payload.History)
	}
	if len(payload.Comments) != 1 || payload.Comments[0].Comment != "looks good" {
		t.Fatalf("unexpected comments %+v", payload.Comments)
	}
}

func TestOrderHandlerList(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{OrdersFn: func(ctx context.Context, actor model.Actor, filterBy, search string, page, perPage int) ([]model.OrderListed, int64, error) {
		if filterBy != "ORDERED" || search != "widget" || page != 2 || perPage != 5 {
			t.Fatalf("unexpected listing args filterBy=%q search=%q page=%d perPage=%d", filterBy, search, page, perPage)
		}
		return []model.OrderListed{
			{Order: model.Order{ID: 11, Status: model.StatusOrdered}, Owner: model.UserSummary{ID: 5, Username: "alice"}},
		}, 6, nil
	}})

	resp := performRequest(t, http.MethodGet, "/orders", "/orders?filterBy=ORDERED&search=widget&page=2&perPage=5", handler.List, asActor(5, model.RoleUser), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.OrderListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Orders) != 1 || payload.Orders[0].ID != 11 {
		t.Fatalf("unexpected orders %+v", payload.Orders)
	}
	if payload.TotalCount != 6 || payload.TotalPages != 2 || payload.Page != 2 || payload.PerPage != 5 {
		t.Fatalf("unexpected pagination %+v", payload)
	}
}

func TestOrderHandlerListAppliesDefaults(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", handler.List, asActor(5, model.RoleUser), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload dto.OrderListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Page != 1 || payload.PerPage != 10 {
		t.Fatalf("expected default pagination, got page=%d perPage=%d", payload.Page, payload.PerPage)
	}
}

func TestOrderHandlerStats(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{StatsFn: func(context.Context, model.Actor) ([]model.StatusCount, error) {
		return []model.StatusCount{{Status: "ORDERED", Count: 3}, {Status: "REVIEWED", Count: 1}}, nil
	}})
	resp := performRequest(t, http.MethodGet, "/orders/stats", "/orders/stats", handler.Stats, asActor(5, model.RoleUser), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload dto.StatsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Stats) != 2 || payload.Stats[0].Status != "ORDERED" || payload.Stats[0].Count != 3 {
		t.Fatalf("unexpected stats %+v", payload.Stats)
	}
}

func TestOrderHandlerAddComment(t *testing.T) {
	body, _ := json.Marshal(dto.CommentRequest{Comment: "ship it"})
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{CommentFn: func(ctx context.Context, actor model.Actor, orderID int64, comment string) (*model.Comment, error) {
		if orderID != 10 || comment != "ship it" {
			t.Fatalf("unexpected comment request id=%d comment=%q", orderID, comment)
		}
		return &model.Comment{ID: 4, OrderID: orderID, Comment: comment, CommentedBy: 5, Role: model.RoleUser}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/orders/:id/comments", "/orders/10/comments", handler.AddComment, asActor(5, model.RoleUser), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOrderHandlerAddCommentRequiresBody(t *testing.T) {
	body, _ := json.Marshal(dto.CommentRequest{})
	resp := performRequest(t, http.MethodPost, "/orders/:id/comments", "/orders/10/comments", NewOrderHandler(testhelpers.OrderFacadeStub{}).AddComment, asActor(5, model.RoleUser), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	deleted := false
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{DeleteFn: func(ctx context.Context, actor model.Actor, orderID int64) error {
		deleted = orderID == 10
		return nil
	}})
	resp := performRequest(t, http.MethodDelete, "/orders/:id", "/orders/10", handler.Delete, asActor(1, model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !deleted {
		t.Fatal("expected delete to reach the facade")
	}
	if !strings.Contains(resp.Body.String(), "order deleted") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestOrderHandlerDeleteForbiddenForNonOwner(t *testing.T) {
	handler := NewOrderHandler(testhelpers.OrderFacadeStub{DeleteFn: func(context.Context, model.Actor, int64) error {
		return domainErrors.ErrNotOwner
	}})
	resp := performRequest(t, http.MethodDelete, "/orders/:id", "/orders/10", handler.Delete, asActor(2, model.RoleUser), nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestAlertHandlerList(t *testing.T) {
	changedBy := int64(2)
	handler := NewAlertHandler(testhelpers.AlertFacadeStub{AlertsFn: func(ctx context.Context, actor model.Actor, page, perPage int) (*model.AlertPage, error) {
		return &model.AlertPage{
			Entries: []model.AlertEntry{
				{
					Alert: model.Alert{ID: 1, OrderID: 10, ChangedBy: &changedBy, Role: model.RoleAdmin, PreviousStatus: model.StatusOrdered, NewStatus: model.StatusSentToSeller, Action: model.ActionStatusChanged},
					Order: &model.AlertOrderSummary{ID: 10, UserID: 5, OrderName: "Widget", Status: model.StatusSentToSeller},
					Actor: &model.UserSummary{ID: 2, Email: "admin@b.com", Username: "admin"},
				},
				{
					Alert: model.Alert{ID: 2, OrderID: 11, Role: model.RoleSystem, PreviousStatus: model.StatusOrdered, NewStatus: model.StatusReviewAwaited, Action: model.ActionAutoStatusChange},
				},
			},
			Page:       1,
			PerPage:    10,
			TotalCount: 2,
		}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/alerts", "/alerts", handler.List, asActor(1, model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload dto.AlertListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Alerts) != 2 || payload.TotalPages != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	first := payload.Alerts[0]
	if first.Order == nil || first.Order.OrderName != "Widget" || first.ChangedBy == nil || first.ChangedBy.Username != "admin" {
		t.Fatalf("expected resolved summaries, got %+v", first)
	}
	second := payload.Alerts[1]
	if second.Order != nil || second.ChangedBy != nil {
		t.Fatalf("expected nil summaries for an orphaned system alert, got %+v", second)
	}
	if second.Action != string(model.ActionAutoStatusChange) {
		t.Fatalf("unexpected action %q", second.Action)
	}
}

func TestSheetHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.SheetRequest{Name: "August"})
	handler := NewSheetHandler(testhelpers.SheetFacadeStub{CreateFn: func(ctx context.Context, actor model.Actor, name string) (*model.Sheet, error) {
		if name != "August" {
			t.Fatalf("unexpected sheet name %q", name)
		}
		return &model.Sheet{ID: 3, Name: name}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/sheets", "/sheets", handler.Create, asActor(1, model.RoleAdmin), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSheetHandlerCreateConflict(t *testing.T) {
	body, _ := json.Marshal(dto.SheetRequest{Name: "August"})
	handler := NewSheetHandler(testhelpers.SheetFacadeStub{CreateFn: func(context.Context, model.Actor, string) (*model.Sheet, error) {
		return nil, domainErrors.ErrAlreadyExists
	}})
	resp := performRequest(t, http.MethodPost, "/sheets", "/sheets", handler.Create, asActor(1, model.RoleAdmin), body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestSheetHandlerList(t *testing.T) {
	handler := NewSheetHandler(testhelpers.SheetFacadeStub{ListFn: func(context.Context) ([]model.Sheet, error) {
		return []model.Sheet{{ID: 3, Name: "August"}}, nil
	}})
	resp := performRequest(t, http.MethodGet, "/sheets", "/sheets", handler.List, asActor(5, model.RoleUser), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload dto.SheetListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Sheets) != 1 || payload.Sheets[0].Name != "August" {
		t.Fatalf("unexpected sheets %+v", payload.Sheets)
	}
}

func TestSheetHandlerDelete(t *testing.T) {
	handler := NewSheetHandler(testhelpers.SheetFacadeStub{DeleteFn: func(ctx context.Context, actor model.Actor, id int64) error {
		if id != 3 {
			t.Fatalf("unexpected sheet id %d", id)
		}
		return nil
	}})
	resp := performRequest(t, http.MethodDelete, "/sheets/:id", "/sheets/3", handler.Delete, asActor(1, model.RoleAdmin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid transition", &domainErrors.InvalidTransitionError{Role: model.RoleUser, Requested: "SENT_TO_SELLER"}, http.StatusBadRequest},
		{"validation", domainErrors.ErrValidation, http.StatusBadRequest},
		{"invalid credentials", domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owner", domainErrors.ErrNotOwner, http.StatusForbidden},
		{"forbidden", domainErrors.ErrForbidden, http.StatusForbidden},
		{"not found", domainErrors.ErrNotFound, http.StatusNotFound},
		{"already exists", domainErrors.ErrAlreadyExists, http.StatusConflict},
		{"version conflict", domainErrors.ErrVersionConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err)
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
