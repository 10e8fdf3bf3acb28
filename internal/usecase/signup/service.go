// Package signup provides the welcome email use case triggered when a
// new user registers.
package signup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"signalist/internal/domain/entity"
	"signalist/internal/repository"
)

// defaultIntro replaces the AI-generated greeting when intro generation
// fails or comes back empty. New users always get a welcome email.
const defaultIntro = "Thanks for joining Signalist. You now have the tools to track markets and trade smarter."

// IntroWriter generates a short personalized greeting from a user
// profile description.
type IntroWriter interface {
	GenerateIntro(ctx context.Context, profile string) (string, error)
}

// WelcomeMailer delivers one welcome email.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, name, intro string) error
}

// Service provides the sign-up email use case.
type Service struct {
	UserRepo repository.UserRepository
	Intro    IntroWriter
	Mailer   WelcomeMailer
}

// NewService creates a new signup Service with the provided dependencies.
func NewService(userRepo repository.UserRepository, intro IntroWriter, mailer WelcomeMailer) Service {
	return Service{
		UserRepo: userRepo,
		Intro:    intro,
		Mailer:   mailer,
	}
}

// SendSignUpEmail records the new user and sends their welcome email.
//
// The greeting is personalized from the user's investment profile. Intro
// generation is best-effort: any failure falls back to the default
// greeting. A mailer failure is returned to the caller so the event can
// be retried.
func (s *Service) SendSignUpEmail(ctx context.Context, user *entity.User) error {
	if user == nil {
		return entity.ErrInvalidInput
	}
	if err := entity.ValidateEmail(user.Email); err != nil {
		return fmt.Errorf("sign-up email: %w", err)
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	intro := defaultIntro
	if s.Intro != nil {
		generated, err := s.Intro.GenerateIntro(ctx, profileText(user))
		switch {
		case err != nil:
			slog.WarnContext(ctx, "welcome intro generation failed, using default",
				slog.String("email", user.Email),
				slog.String("error", err.Error()))
		case strings.TrimSpace(generated) == "":
			slog.WarnContext(ctx, "welcome intro generation returned empty text, using default",
				slog.String("email", user.Email))
		default:
			intro = generated
		}
	}

	if err := s.Mailer.SendWelcomeEmail(ctx, user.Email, user.Name, intro); err != nil {
		return fmt.Errorf("send welcome email to %s: %w", user.Email, err)
	}

	slog.InfoContext(ctx, "welcome email sent",
		slog.String("email", user.Email))
	return nil
}

// profileText renders the user's investment profile for the intro prompt.
func profileText(user *entity.User) string {
	return fmt.Sprintf(
		"- Country: %s\n- Investment goals: %s\n- Risk tolerance: %s\n- Preferred industry: %s",
		valueOrUnknown(user.Country),
		valueOrUnknown(user.InvestmentGoals),
		valueOrUnknown(user.RiskTolerance),
		valueOrUnknown(user.PreferredIndustry),
	)
}

func valueOrUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not specified"
	}
	return value
}
