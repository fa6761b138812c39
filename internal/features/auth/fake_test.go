package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mo-amir99/course-marketplace-go/internal/features/user"
	"github.com/mo-amir99/course-marketplace-go/pkg/email"
	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]*user.User{}}
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *usr
	return &clone, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, emailAddr string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, usr := range f.users {
		if usr.Email == user.NormalizeEmail(emailAddr) {
			clone := *usr
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUsers) Create(_ context.Context, input user.CreateInput) (*user.User, error) {
	hash, err := user.HashPassword(input.Password, input.BcryptCost)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, usr := range f.users {
		if usr.Email == user.NormalizeEmail(input.Email) {
			return nil, user.ErrEmailTaken
		}
	}
	usr := &user.User{
		Name:     input.Name,
		Email:    user.NormalizeEmail(input.Email),
		Password: hash,
		Picture:  user.DefaultPicture,
		Roles:    types.NewRoleSet(types.RoleSubscriber),
	}
	usr.ID = uuid.New()
	f.users[usr.ID] = usr
	clone := *usr
	return &clone, nil
}

func (f *fakeUsers) update(id uuid.UUID, fn func(*user.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(usr)
	return nil
}

func (f *fakeUsers) SetResetCode(_ context.Context, id uuid.UUID, code string) error {
	return f.update(id, func(u *user.User) { u.PasswordResetCode = &code })
}

func (f *fakeUsers) SetPassword(_ context.Context, id uuid.UUID, hash string) error {
	return f.update(id, func(u *user.User) {
		u.Password = hash
		u.PasswordResetCode = nil
	})
}

func (f *fakeUsers) SetStripeAccount(_ context.Context, id uuid.UUID, accountID string) error {
	return f.update(id, func(u *user.User) { u.StripeAccountID = &accountID })
}

func (f *fakeUsers) PromoteToInstructor(_ context.Context, id uuid.UUID, seller datatypes.JSON) error {
	return f.update(id, func(u *user.User) {
		u.StripeSeller = seller
		u.Roles.Add(types.RoleInstructor)
	})
}

func (f *fakeUsers) Profiles(_ context.Context, ids []uuid.UUID) ([]user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []user.Profile
	for _, id := range ids {
		if usr, ok := f.users[id]; ok {
			out = append(out, usr.Profile())
		}
	}
	return out, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() (email.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Subject == "Reset Password" {
			return m.sent[i], true
		}
	}
	return email.Message{}, false
}
