package requests

import (
	"context"
	"testing"
	"time"

	"github.com/sharekit-app/sharekit-backend/pkg/db/models"
	pkgerrors "github.com/sharekit-app/sharekit-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubRequestRepo struct {
	requests map[int64]models.Request
	nextID   int64

	pagedIndex int
	pagedSize  int
	paged      bool
}

func newStubRequestRepo(seed ...models.Request) *stubRequestRepo {
	repo := &stubRequestRepo{requests: map[int64]models.Request{}, nextID: 1}
	for _, req := range seed {
		repo.requests[req.ID] = req
		if req.ID >= repo.nextID {
			repo.nextID = req.ID + 1
		}
	}
	return repo
}

func (r *stubRequestRepo) Create(_ context.Context, request *models.Request) error {
	request.ID = r.nextID
	r.nextID++
	r.requests[request.ID] = *request
	return nil
}

func (r *stubRequestRepo) GetByID(_ context.Context, id int64) (models.Request, error) {
	request, ok := r.requests[id]
	if !ok {
		return models.Request{}, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (r *stubRequestRepo) ListByRequestor(_ context.Context, requestorID int64) ([]models.Request, error) {
	var out []models.Request
	for id := int64(1); id < r.nextID; id++ {
		if req, ok := r.requests[id]; ok && req.RequestorID == requestorID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *stubRequestRepo) ListPage(_ context.Context, pageIndex, size int) ([]models.Request, error) {
	r.paged = true
	r.pagedIndex = pageIndex
	r.pagedSize = size

	var all []models.Request
	for id := int64(1); id < r.nextID; id++ {
		if req, ok := r.requests[id]; ok {
			all = append(all, req)
		}
	}
	start := pageIndex * size
	if start >= len(all) {
		return nil, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

type stubUsers struct {
	users map[int64]models.User
}

func (g stubUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	user, ok := g.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubItemLister struct {
	byRequest map[int64][]models.Item
}

func (l stubItemLister) ListByRequest(_ context.Context, requestID int64) ([]models.Item, error) {
	return l.byRequest[requestID], nil
}

func newTestService(t *testing.T, repo *stubRequestRepo, itemsStub stubItemLister) Service {
	t.Helper()
	users := stubUsers{users: map[int64]models.User{
		1: {ID: 1, Name: "Ann", Email: "ann@example.com"},
		2: {ID: 2, Name: "Bob", Email: "bob@example.com"},
	}}
	svc, err := NewService(repo, users, itemsStub)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	users := stubUsers{}
	if _, err := NewService(nil, users, stubItemLister{}); err == nil {
		t.Fatal("expected error without repo")
	}
	if _, err := NewService(newStubRequestRepo(), nil, stubItemLister{}); err == nil {
		t.Fatal("expected error without users")
	}
	if _, err := NewService(newStubRequestRepo(), users, nil); err == nil {
		t.Fatal("expected error without items")
	}
}

func TestServiceCreateStampsCreated(t *testing.T) {
	svc := newTestService(t, newStubRequestRepo(), stubItemLister{})

	dto, err := svc.Create(context.Background(), 1, CreateInput{Description: "need a drill"})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if dto.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if dto.Created.IsZero() {
		t.Fatal("expected created timestamp")
	}
}

func TestServiceListOwnIncludesItems(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	repo := newStubRequestRepo(
		models.Request{ID: 1, Description: "need a drill", RequestorID: 1, CreatedAt: created},
		models.Request{ID: 2, Description: "need a saw", RequestorID: 2, CreatedAt: created},
	)
	lister := stubItemLister{byRequest: map[int64][]models.Item{
		1: {{ID: 5, Name: "Drill", Available: true, OwnerID: 2}},
	}}
	svc := newTestService(t, repo, lister)

	got, err := svc.ListOwn(context.Background(), 1)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one own request, got %d", len(got))
	}
	if len(got[0].Items) != 1 || got[0].Items[0].ID != 5 {
		t.Fatalf("expected linked item, got %+v", got[0].Items)
	}
}

func TestServiceListOthersExcludesOwn(t *testing.T) {
	repo := newStubRequestRepo(
		models.Request{ID: 1, Description: "mine", RequestorID: 1},
		models.Request{ID: 2, Description: "theirs", RequestorID: 2},
	)
	svc := newTestService(t, repo, stubItemLister{})

	from, size := 0, 10
	got, err := svc.ListOthers(context.Background(), 1, &from, &size)
	if err != nil {
		t.Fatalf("list others: %v", err)
	}
	if len(got) != 1 || got[0].Description != "theirs" {
		t.Fatalf("expected only the other user's request, got %+v", got)
	}
}

func TestServiceListOthersEmptyWithoutRange(t *testing.T) {
	repo := newStubRequestRepo(models.Request{ID: 2, Description: "theirs", RequestorID: 2})
	svc := newTestService(t, repo, stubItemLister{})

	size := 10
	got, err := svc.ListOthers(context.Background(), 1, nil, &size)
	if err != nil {
		t.Fatalf("list others: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result without range, got %d", len(got))
	}
	if repo.paged {
		t.Fatal("expected no repo call without range")
	}
}

func TestServiceListOthersUsesRawFromAsPageIndex(t *testing.T) {
	repo := newStubRequestRepo(models.Request{ID: 2, Description: "theirs", RequestorID: 2})
	svc := newTestService(t, repo, stubItemLister{})

	from, size := 3, 2
	if _, err := svc.ListOthers(context.Background(), 1, &from, &size); err != nil {
		t.Fatalf("list others: %v", err)
	}
	if repo.pagedIndex != 3 || repo.pagedSize != 2 {
		t.Fatalf("expected page (3,2), got (%d,%d)", repo.pagedIndex, repo.pagedSize)
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newTestService(t, newStubRequestRepo(), stubItemLister{})

	_, err := svc.Get(context.Background(), 1, 9)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Not found request 9" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceGetUnknownCaller(t *testing.T) {
	repo := newStubRequestRepo(models.Request{ID: 1, Description: "need", RequestorID: 1})
	svc := newTestService(t, repo, stubItemLister{})

	_, err := svc.Get(context.Background(), 99, 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Not found user 99" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}
