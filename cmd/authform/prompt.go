package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/config"
	"github.com/goliatone/go-authform/internal/server"
	"github.com/goliatone/go-authform/pkg/renderers/tui"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/submit"
	"github.com/goliatone/go-authform/pkg/toast"
)

var errNotSubmitted = errors.New("form was not submitted")

var promptFlags struct {
	form    string
	format  string
	noColor bool
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill in the login or registration form from the terminal",
	Long: `Prompt for every field of a form, validating each answer as it is
entered, then submit it through the simulated backend. After a successful
registration you are asked whether to continue with the sign-in form. The submitted values are
printed to stdout in the selected format; toasts go to stderr.`,
	RunE: runPrompt,
}

func init() {
	flags := promptCmd.Flags()
	flags.StringVar(&promptFlags.form, "form", "", "form id to fill in (prompted when empty)")
	flags.StringVar(&promptFlags.format, "format", string(tui.OutputFormatJSON), "output format: json, form, pretty")
	flags.BoolVar(&promptFlags.noColor, "no-color", false, "disable coloured output")
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, ok := tui.ParseOutputFormat(promptFlags.format)
	if !ok {
		return fmt.Errorf("unknown output format %q", promptFlags.format)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := &promptRunner{
		cfg:    cfg,
		format: format,
		color:  !promptFlags.noColor,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		log:    zap.NewNop(),
	}
	return runner.run(ctx, promptFlags.form)
}

type promptRunner struct {
	cfg *config.Config
	// driver replaces the survey prompts when set.
	driver tui.PromptDriver
	format tui.OutputFormat
	color  bool
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
}

func (p *promptRunner) run(ctx context.Context, formID string) error {
	page, err := server.LoadPage(p.cfg)
	if err != nil {
		return err
	}
	store, closeStore, err := server.OpenDraftStore(ctx, p.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	sess, err := session.New(page,
		session.WithStore(store),
		session.WithSubmitter(submit.NewSimulated(
			submit.WithDelay(p.cfg.Submit.Delay),
			submit.WithRedirectAfter(p.cfg.Submit.RedirectDelay),
		)),
		session.WithLogger(p.log),
		session.WithAutosaveDebounce(p.cfg.Session.AutosaveDebounce),
		session.WithToastCapacity(p.cfg.Session.ToastCapacity),
		session.WithIncludeSecrets(p.cfg.Drafts.IncludeSecrets),
	)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(context.Background()) }()

	if err := sess.Restore(ctx); err != nil {
		p.log.Warn("restore drafts failed", zap.Error(err))
	}
	chosen := formID != ""
	if chosen {
		if err := sess.SwitchTab(formID); err != nil {
			return err
		}
	}

	opts := []tui.Option{
		tui.WithOutputFormat(p.format),
		tui.WithColor(p.color),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
	}
	if p.driver != nil {
		opts = append(opts, tui.WithPromptDriver(p.driver))
	}
	renderer, err := tui.New(opts...)
	if err != nil {
		return err
	}

	for {
		snapshot := sess.Snapshot()
		snapshot.Locale = p.cfg.UI.Locale
		if !chosen {
			snapshot.ActiveTab = ""
		}

		sub, err := renderer.Collect(ctx, page, snapshot)
		if err != nil {
			return err
		}
		for fieldID, value := range sub.Values {
			if _, err := sess.Input(ctx, sub.FormID, fieldID, value); err != nil {
				return err
			}
		}

		result, err := sess.Submit(ctx, sub.FormID)
		p.printToasts(sess.Toasts())
		if err != nil {
			return err
		}
		chosen = true
		if !result.Valid {
			retry, err := renderer.Confirm(ctx, tui.ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil {
				return err
			}
			if !retry {
				return errNotSubmitted
			}
			if err := sess.SwitchTab(sub.FormID); err != nil {
				return err
			}
			continue
		}

		payload, err := renderer.Encode(page, sub)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, string(payload))

		outcome := result.Outcome
		if outcome == nil || outcome.SwitchTab == "" || outcome.SwitchTab == sub.FormID {
			if outcome != nil && outcome.Redirect != "" {
				fmt.Fprintf(p.errOut, "Redirecting to %s\n", outcome.Redirect)
			}
			return nil
		}

		next := outcome.SwitchTab
		if form, ok := page.Form(next); ok && form.Title != "" {
			next = form.Title
		}
		proceed, err := renderer.Confirm(ctx, tui.ConfirmConfig{
			Message: fmt.Sprintf("Continue to %s?", next),
			Default: true,
		})
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}
}

func (p *promptRunner) printToasts(toasts []toast.Toast) {
	for _, t := range toasts {
		c := color.New(color.FgCyan)
		switch t.Kind {
		case toast.KindSuccess:
			c = color.New(color.FgGreen)
		case toast.KindError:
			c = color.New(color.FgRed)
		}
		if p.color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		c.Fprintln(p.errOut, t.Message)
	}
}
