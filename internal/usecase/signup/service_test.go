package signup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalist/internal/domain/entity"
)

type mockUserRepo struct {
	created *entity.User
	err     error
}

func (m *mockUserRepo) ListForNewsEmail(_ context.Context) ([]*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *entity.User) error {
	m.created = user
	return m.err
}

type mockIntroWriter struct {
	intro   string
	err     error
	profile string
}

func (m *mockIntroWriter) GenerateIntro(_ context.Context, profile string) (string, error) {
	m.profile = profile
	return m.intro, m.err
}

type mockWelcomeMailer struct {
	email string
	name  string
	intro string
	err   error
}

func (m *mockWelcomeMailer) SendWelcomeEmail(_ context.Context, email, name, intro string) error {
	m.email, m.name, m.intro = email, name, intro
	return m.err
}

func testUser() *entity.User {
	return &entity.User{
		Email:             "alice@example.com",
		Name:              "Alice",
		Country:           "US",
		InvestmentGoals:   "Growth",
		RiskTolerance:     "Medium",
		PreferredIndustry: "Technology",
	}
}

func TestSendSignUpEmail(t *testing.T) {
	repo := &mockUserRepo{}
	intro := &mockIntroWriter{intro: "Welcome Alice, ready to track tech growth stocks?"}
	mailer := &mockWelcomeMailer{}
	svc := NewService(repo, intro, mailer)

	err := svc.SendSignUpEmail(context.Background(), testUser())

	require.NoError(t, err)
	assert.NotNil(t, repo.created)
	assert.Equal(t, "alice@example.com", mailer.email)
	assert.Equal(t, "Alice", mailer.name)
	assert.Equal(t, "Welcome Alice, ready to track tech growth stocks?", mailer.intro)
}

func TestSendSignUpEmail_ProfileText(t *testing.T) {
	intro := &mockIntroWriter{intro: "hi"}
	svc := NewService(&mockUserRepo{}, intro, &mockWelcomeMailer{})

	err := svc.SendSignUpEmail(context.Background(), testUser())

	require.NoError(t, err)
	assert.Contains(t, intro.profile, "- Country: US")
	assert.Contains(t, intro.profile, "- Investment goals: Growth")
	assert.Contains(t, intro.profile, "- Risk tolerance: Medium")
	assert.Contains(t, intro.profile, "- Preferred industry: Technology")
}

func TestSendSignUpEmail_MissingProfileFields(t *testing.T) {
	intro := &mockIntroWriter{intro: "hi"}
	svc := NewService(&mockUserRepo{}, intro, &mockWelcomeMailer{})

	user := testUser()
	user.Country = ""
	user.PreferredIndustry = "  "

	err := svc.SendSignUpEmail(context.Background(), user)

	require.NoError(t, err)
	assert.Contains(t, intro.profile, "- Country: Not specified")
	assert.Contains(t, intro.profile, "- Preferred industry: Not specified")
}

func TestSendSignUpEmail_IntroErrorFallsBack(t *testing.T) {
	mailer := &mockWelcomeMailer{}
	svc := NewService(&mockUserRepo{}, &mockIntroWriter{err: errors.New("ai down")}, mailer)

	err := svc.SendSignUpEmail(context.Background(), testUser())

	require.NoError(t, err)
	assert.Equal(t, defaultIntro, mailer.intro)
}

func TestSendSignUpEmail_EmptyIntroFallsBack(t *testing.T) {
	mailer := &mockWelcomeMailer{}
	svc := NewService(&mockUserRepo{}, &mockIntroWriter{intro: "   "}, mailer)

	err := svc.SendSignUpEmail(context.Background(), testUser())

	require.NoError(t, err)
	assert.Equal(t, defaultIntro, mailer.intro)
}

func TestSendSignUpEmail_NilIntroWriter(t *testing.T) {
	mailer := &mockWelcomeMailer{}
	svc := NewService(&mockUserRepo{}, nil, mailer)

	err := svc.SendSignUpEmail(context.Background(), testUser())

	require.NoError(t, err)
	assert.Equal(t, defaultIntro, mailer.intro)
}

func TestSendSignUpEmail_InvalidEmail(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIntroWriter{}, &mockWelcomeMailer{})

	user := testUser()
	user.Email = "not-an-email"

	err := svc.SendSignUpEmail(context.Background(), user)

	assert.Error(t, err)
}

func TestSendSignUpEmail_MailerErrorPropagates(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockIntroWriter{intro: "hi"},
		&mockWelcomeMailer{err: errors.New("smtp refused")})

	err := svc.SendSignUpEmail(context.Background(), testUser())

	assert.ErrorContains(t, err, "welcome email")
}

func TestSendSignUpEmail_CreateErrorPropagates(t *testing.T) {
	svc := NewService(&mockUserRepo{err: errors.New("constraint violation")},
		&mockIntroWriter{intro: "hi"}, &mockWelcomeMailer{})

	err := svc.SendSignUpEmail(context.Background(), testUser())

	assert.ErrorContains(t, err, "create user")
}
