package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/okonev/orderdesk/internal/domain/errors"
	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/domain/repository"
)

// OrderRepositoryStub implements repository.OrderRepository via function
// overrides; calls without an override panic so tests state what they use.
// Transition and schedule writes are additionally recorded.
type OrderRepositoryStub struct {
	sync.Mutex

	CreateFn        func(context.Context, model.OrderDraft, time.Time) (*model.Order, error)
	GetByIDFn       func(context.Context, int64) (*model.Order, error)
	DetailFn        func(context.Context, int64) (*model.OrderDetail, error)
	ListFn          func(context.Context, model.OrderFilter) ([]model.OrderListed, int64, error)
	StatusCountsFn  func(context.Context, *int64) ([]model.StatusCount, error)
	ApplyFn         func(context.Context, repository.TransitionRecord) (*model.StatusChange, error)
	UpdatePayloadFn func(context.Context, int64, model.OrderPatch) error
	ClearScheduleFn func(context.Context, int64) error
	DueFn           func(context.Context, time.Time, int) ([]model.Order, error)
	AddCommentFn    func(context.Context, int64, string, model.Actor, time.Time) (*model.Comment, error)
	DeleteFn        func(context.Context, int64) error

	Applied []repository.TransitionRecord
	Cleared []int64
	Deleted []int64
}

func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft, nextStatusAt time.Time) (*model.Order, error) {
	if s.CreateFn == nil {
		panic("Create not implemented")
	}
	return s.CreateFn(ctx, draft, nextStatusAt)
}

func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn == nil {
		panic("GetByID not implemented")
	}
	return s.GetByIDFn(ctx, id)
}

func (s *OrderRepositoryStub) Detail(ctx context.Context, id int64) (*model.OrderDetail, error) {
	if s.DetailFn == nil {
		panic("Detail not implemented")
	}
	return s.DetailFn(ctx, id)
}

func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.OrderListed, int64, error) {
	if s.ListFn == nil {
		panic("List not implemented")
	}
	return s.ListFn(ctx, filter)
}

func (s *OrderRepositoryStub) StatusCounts(ctx context.Context, ownerID *int64) ([]model.StatusCount, error) {
	if s.StatusCountsFn == nil {
		panic("StatusCounts not implemented")
	}
	return s.StatusCountsFn(ctx, ownerID)
}

func (s *OrderRepositoryStub) ApplyTransition(ctx context.Context, record repository.TransitionRecord) (*model.StatusChange, error) {
	s.Lock()
	s.Applied = append(s.Applied, record)
	s.Unlock()
	if s.ApplyFn == nil {
		return &model.StatusChange{
			OrderID:        record.Order.ID,
			PreviousStatus: record.PreviousStatus,
			NewStatus:      record.NewStatus,
			ChangedBy:      record.Actor.ID,
			Role:           record.Actor.Role,
			ChangedAt:      record.ChangedAt,
		}, nil
	}
	return s.ApplyFn(ctx, record)
}

func (s *OrderRepositoryStub) UpdatePayload(ctx context.Context, orderID int64, patch model.OrderPatch) error {
	if s.UpdatePayloadFn == nil {
		panic("UpdatePayload not implemented")
	}
	return s.UpdatePayloadFn(ctx, orderID, patch)
}

func (s *OrderRepositoryStub) ClearSchedule(ctx context.Context, orderID int64) error {
	s.Lock()
	s.Cleared = append(s.Cleared, orderID)
	s.Unlock()
	if s.ClearScheduleFn == nil {
		return nil
	}
	return s.ClearScheduleFn(ctx, orderID)
}

func (s *OrderRepositoryStub) Due(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	if s.DueFn == nil {
		panic("Due not implemented")
	}
	return s.DueFn(ctx, now, limit)
}

func (s *OrderRepositoryStub) AddComment(ctx context.Context, orderID int64, comment string, actor model.Actor, at time.Time) (*model.Comment, error) {
	if s.AddCommentFn == nil {
		panic("AddComment not implemented")
	}
	return s.AddCommentFn(ctx, orderID, comment, actor, at)
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, orderID int64) error {
	s.Lock()
	s.Deleted = append(s.Deleted, orderID)
	s.Unlock()
	if s.DeleteFn == nil {
		return nil
	}
	return s.DeleteFn(ctx, orderID)
}

// AppliedRecords returns a copy of the recorded transition writes.
func (s *OrderRepositoryStub) AppliedRecords() []repository.TransitionRecord {
	s.Lock()
	defer s.Unlock()
	return append([]repository.TransitionRecord(nil), s.Applied...)
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, email, username, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{
		ID:           s.Next,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail returns a stored user or ErrNotFound.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.Users[email]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user, nil
}

// GetByID returns a stored user or ErrNotFound.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user, nil
}

// SheetRepositoryStub stores sheets in-memory for tests.
type SheetRepositoryStub struct {
	Sheets map[string]*model.Sheet
	Next   int64
	Err    error
}

// NewSheetRepositoryStub constructs stub repository with initialized maps.
func NewSheetRepositoryStub() *SheetRepositoryStub {
	return &SheetRepositoryStub{Sheets: make(map[string]*model.Sheet), Next: 1}
}

func (s *SheetRepositoryStub) Create(ctx context.Context, name string, createdBy int64) (*model.Sheet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	sheet := &model.Sheet{ID: s.Next, Name: name, CreatedBy: createdBy, CreatedAt: time.Now()}
	s.Next++
	s.Sheets[name] = sheet
	return sheet, nil
}

func (s *SheetRepositoryStub) GetByName(ctx context.Context, name string) (*model.Sheet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	sheet, ok := s.Sheets[name]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return sheet, nil
}

func (s *SheetRepositoryStub) List(ctx context.Context) ([]model.Sheet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Sheet, 0, len(s.Sheets))
	for _, sheet := range s.Sheets {
		result = append(result, *sheet)
	}
	return result, nil
}

func (s *SheetRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.Err != nil {
		return s.Err
	}
	for name, sheet := range s.Sheets {
		if sheet.ID == id {
			delete(s.Sheets, name)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// AlertRepositoryStub serves a canned alert page.
type AlertRepositoryStub struct {
	Page    *model.AlertPage
	Filters []model.AlertFilter
	Err     error
}

func (s *AlertRepositoryStub) List(ctx context.Context, filter model.AlertFilter) (*model.AlertPage, error) {
	s.Filters = append(s.Filters, filter)
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Page != nil {
		return s.Page, nil
	}
	return &model.AlertPage{Page: filter.Page, PerPage: filter.PerPage}, nil
}
