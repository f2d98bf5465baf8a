package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSimulatedOutcomes(t *testing.T) {
	s := NewSimulated(WithDelay(0))

	tests := []struct {
		name string
		form string
		want Outcome
	}{
		{
			name: "login redirects",
			form: LoginFormID,
			want: Outcome{
				Message:       MessageLoginSuccess,
				Redirect:      DashboardURL,
				RedirectAfter: DefaultRedirectAfter,
			},
		},
		{
			name: "register resets and switches",
			form: RegisterFormID,
			want: Outcome{
				Message:   MessageRegisterSuccess,
				SwitchTab: LoginFormID,
				ResetForm: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Submit(context.Background(), Request{FormID: tt.form})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimulatedUnknownForm(t *testing.T) {
	_, err := NewSimulated(WithDelay(0)).Submit(context.Background(), Request{FormID: "other"})
	if !errors.Is(err, ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}

func TestSimulatedHonoursCancellation(t *testing.T) {
	s := NewSimulated(WithDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, Request{FormID: LoginFormID})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatedWaitsDelay(t *testing.T) {
	s := NewSimulated(WithDelay(20 * time.Millisecond))
	start := time.Now()
	if _, err := s.Submit(context.Background(), Request{FormID: LoginFormID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected submit to wait, returned after %s", elapsed)
	}
}

func TestWithFormIDs(t *testing.T) {
	s := NewSimulated(WithDelay(0), WithFormIDs("signin", "signup"))
	got, err := s.Submit(context.Background(), Request{FormID: "signup"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.SwitchTab != "signin" {
		t.Fatalf("expected switch to signin, got %q", got.SwitchTab)
	}
}

func TestAsync(t *testing.T) {
	calls := 0
	fn := Func(func(ctx context.Context, req Request) (Outcome, error) {
		calls++
		return Outcome{Message: req.FormID}, nil
	})

	res, ok := <-Async(context.Background(), fn, Request{FormID: "loginForm"})
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Err != nil || res.Outcome.Message != "loginForm" {
		t.Fatalf("unexpected result %+v", res)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}
