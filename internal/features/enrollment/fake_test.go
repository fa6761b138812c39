package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/pagination"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

type fakeCourses struct {
	course.Store
	courses map[uuid.UUID]*course.Course
}

func (f *fakeCourses) Get(_ context.Context, id uuid.UUID) (*course.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCourses) GetBySlug(_ context.Context, slug string) (*course.Course, error) {
	for _, c := range f.courses {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, course.ErrCourseNotFound
}

func (f *fakeCourses) ListEnrolled(_ context.Context, _ uuid.UUID, _ course.Filters, _ pagination.Params) ([]course.Course, int64, error) {
	return nil, 0, nil
}

type fakeUsers struct {
	user.Store
	ids map[uuid.UUID]bool
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	if !f.ids[id] {
		return nil, user.ErrUserNotFound
	}
	usr := &user.User{}
	usr.ID = id
	return usr, nil
}

type pair struct {
	user, course uuid.UUID
}

type fakeStore struct {
	mu          sync.Mutex
	enrollments map[pair]bool
	intents     []*PaymentIntent
	reviewed    map[pair]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{enrollments: map[pair]bool{}, reviewed: map[pair]bool{}}
}

func (f *fakeStore) IsEnrolled(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enrollments[pair{userID, courseID}], nil
}

func (f *fakeStore) Enroll(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pair{userID, courseID}
	if f.enrollments[key] {
		return false, nil
	}
	f.enrollments[key] = true
	return true, nil
}

func (f *fakeStore) CreateIntent(_ context.Context, intent *PaymentIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.intents {
		if existing.SessionID == intent.SessionID {
			return errors.New("duplicate session id")
		}
	}
	intent.ID = uuid.New()
	clone := *intent
	f.intents = append(f.intents, &clone)
	return nil
}

func (f *fakeStore) LatestOpenIntent(_ context.Context, userID, courseID uuid.UUID) (*PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.intents) - 1; i >= 0; i-- {
		intent := f.intents[i]
		if intent.UserID == userID && intent.CourseID == courseID && isOpen(intent.Status) {
			clone := *intent
			return &clone, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (f *fakeStore) Capture(_ context.Context, intent *PaymentIntent, _ datatypes.JSON) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stored := range f.intents {
		if stored.ID != intent.ID {
			continue
		}
		if !isOpen(stored.Status) {
			return false, nil
		}
		stored.Status = types.PaymentStatusCaptured
		f.enrollments[pair{stored.UserID, stored.CourseID}] = true
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) StudentIDs(_ context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for key := range f.enrollments {
		if key.course == courseID {
			ids = append(ids, key.user)
		}
	}
	return ids, nil
}

func (f *fakeStore) HasReviewed(_ context.Context, userID, courseID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reviewed[pair{userID, courseID}], nil
}

func (f *fakeStore) ExpirePending(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, stored := range f.intents {
		if stored.Status == types.PaymentStatusPending && stored.CreatedAt.Before(before) {
			stored.Status = types.PaymentStatusExpired
			n++
		}
	}
	return n, nil
}

func isOpen(status types.PaymentStatus) bool {
	for _, open := range openStatuses {
		if status == open {
			return true
		}
	}
	return false
}

func (f *fakeStore) enrollmentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enrollments)
}

type fakeProvider struct {
	payments.Provider

	mu          sync.Mutex
	requests    []payments.CheckoutRequest
	status      map[string]string
	lookups     int
	failCreate  bool
	nextSession int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{status: map[string]string{}}
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failCreate {
		return nil, errors.New("stripe: card_declined")
	}
	p.requests = append(p.requests, req)
	p.nextSession++
	id := fmt.Sprintf("cs_test_%d", p.nextSession)
	p.status[id] = "unpaid"
	return &payments.CheckoutSession{ID: id, URL: "https://checkout.example.com/" + id, PaymentStatus: "unpaid", Raw: []byte(`{"id":"` + id + `"}`)}, nil
}

func (p *fakeProvider) GetCheckoutSession(_ context.Context, id string) (*payments.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups++
	status, ok := p.status[id]
	if !ok {
		return nil, errors.New("stripe: no such checkout session")
	}
	return &payments.CheckoutSession{ID: id, PaymentStatus: status}, nil
}

func (p *fakeProvider) markPaid(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[id] = payments.PaymentStatusPaid
}

func (p *fakeProvider) lookupCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookups
}
