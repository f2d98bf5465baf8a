package submit

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultDelay         = 2 * time.Second
	DefaultRedirectAfter = 2 * time.Second

	LoginFormID    = "loginForm"
	RegisterFormID = "registerForm"

	MessageLoginSuccess    = "Login successful! Redirecting..."
	MessageRegisterSuccess = "Account created successfully! Please check your email for verification."
	DashboardURL           = "dashboard.html"
)

// Simulated pretends to talk to a backend: it waits Delay and returns a
// canned outcome for the login and register forms.
type Simulated struct {
	Delay         time.Duration
	RedirectAfter time.Duration
	// LoginForm and RegisterForm override the recognised form ids.
	LoginForm    string
	RegisterForm string
}

// SimulatedOption customises a Simulated submitter.
type SimulatedOption func(*Simulated)

// WithDelay sets the artificial latency. Negative values are treated as zero.
func WithDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d < 0 {
			d = 0
		}
		s.Delay = d
	}
}

// WithRedirectAfter sets the delay reported with the login redirect.
func WithRedirectAfter(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d < 0 {
			d = 0
		}
		s.RedirectAfter = d
	}
}

// WithFormIDs overrides the login and register form ids.
func WithFormIDs(login, register string) SimulatedOption {
	return func(s *Simulated) {
		if login != "" {
			s.LoginForm = login
		}
		if register != "" {
			s.RegisterForm = register
		}
	}
}

// NewSimulated builds a Simulated submitter with the demo defaults.
func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		Delay:         DefaultDelay,
		RedirectAfter: DefaultRedirectAfter,
		LoginForm:     LoginFormID,
		RegisterForm:  RegisterFormID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit implements Submitter.
func (s *Simulated) Submit(ctx context.Context, req Request) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var outcome Outcome
	switch req.FormID {
	case s.loginForm():
		outcome = Outcome{
			Message:       MessageLoginSuccess,
			Redirect:      DashboardURL,
			RedirectAfter: s.RedirectAfter,
		}
	case s.registerForm():
		outcome = Outcome{
			Message:   MessageRegisterSuccess,
			SwitchTab: s.loginForm(),
			ResetForm: true,
		}
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownForm, req.FormID)
	}

	if err := wait(ctx, s.Delay); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

func (s *Simulated) loginForm() string {
	if s.LoginForm == "" {
		return LoginFormID
	}
	return s.LoginForm
}

func (s *Simulated) registerForm() string {
	if s.RegisterForm == "" {
		return RegisterFormID
	}
	return s.RegisterForm
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
