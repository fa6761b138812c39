package instructor

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/features/course"
	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/payments"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

type fakeUsers struct {
	user.Store

	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]*user.User{}}
}

func (f *fakeUsers) add(name, email string, roles ...types.Role) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr := &user.User{Name: name, Email: email, Roles: types.NewRoleSet(roles...)}
	usr.ID = uuid.New()
	f.users[usr.ID] = usr
	return usr
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *usr
	clone.Roles = types.NewRoleSet(usr.Roles.Slice()...)
	return &clone, nil
}

func (f *fakeUsers) SetStripeAccount(_ context.Context, id uuid.UUID, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	usr.StripeAccountID = &accountID
	return nil
}

func (f *fakeUsers) PromoteToInstructor(_ context.Context, id uuid.UUID, seller datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	usr.StripeSeller = seller
	usr.Roles.Add(types.RoleInstructor)
	return nil
}

func (f *fakeUsers) Profiles(_ context.Context, ids []uuid.UUID) ([]user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profiles := make([]user.Profile, 0, len(ids))
	for _, id := range ids {
		if usr, ok := f.users[id]; ok {
			profiles = append(profiles, usr.Profile())
		}
	}
	return profiles, nil
}

type fakeCourses struct {
	course.Store
	courses map[uuid.UUID]*course.Course
}

func (f *fakeCourses) Get(_ context.Context, id uuid.UUID) (*course.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c, nil
}

type fakeStudents map[uuid.UUID][]uuid.UUID

func (f fakeStudents) StudentIDs(_ context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	return f[courseID], nil
}

type fakeProvider struct {
	payments.Provider

	chargesEnabled bool
	created        int
	linkAccount    string
}

func (p *fakeProvider) CreateAccount(_ context.Context, email string) (*payments.Account, error) {
	p.created++
	return &payments.Account{ID: "acct_new", Email: email}, nil
}

func (p *fakeProvider) CreateAccountLink(_ context.Context, accountID, refreshURL, _ string) (string, error) {
	p.linkAccount = accountID
	return "https://connect.example.com/setup/e/" + accountID + "?refresh=" + refreshURL, nil
}

func (p *fakeProvider) GetAccount(_ context.Context, id string) (*payments.Account, error) {
	if id == "" {
		return nil, errors.New("stripe: missing account")
	}
	return &payments.Account{
		ID:             id,
		ChargesEnabled: p.chargesEnabled,
		Raw:            []byte(`{"id":"` + id + `","charges_enabled":true}`),
	}, nil
}

func (p *fakeProvider) CreateLoginLink(_ context.Context, accountID string) (string, error) {
	return "https://connect.example.com/express/" + accountID, nil
}

func (p *fakeProvider) GetBalance(_ context.Context, _ string) (*payments.Balance, error) {
	return &payments.Balance{Available: []payments.Amount{{Amount: 4200, Currency: "usd"}}}, nil
}
