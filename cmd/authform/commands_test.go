package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/internal/config"
	"github.com/goliatone/go-authform/pkg/renderers/tui"
	"github.com/goliatone/go-authform/pkg/submit"
)

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runVersion(cmd, nil))

	output := buf.String()
	assert.Contains(t, output, "authform dev")
	assert.Contains(t, output, "Commit:")
	assert.Contains(t, output, "Go version:")
	assert.Contains(t, output, "OS/Arch:")
}

func TestRunScore(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, runScore(cmd, []string{"abcdefgh"}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(2), got["score"])
	assert.Equal(t, "weak", got["level"])
	assert.Contains(t, got, "estimate")
}

func TestRunScoreReadsStdin(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetIn(strings.NewReader("Abcdef1!\n"))

	require.NoError(t, runScore(cmd, nil))
	assert.Contains(t, buf.String(), `"level": "strong"`)

	cmd.SetIn(strings.NewReader(""))
	assert.Error(t, runScore(cmd, nil))
}

func TestRunValidate(t *testing.T) {
	t.Cleanup(func() {
		validateFlags.kind, validateFlags.value = "text", ""
		validateFlags.required, validateFlags.primary = false, ""
	})

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	validateFlags.kind = "email"
	validateFlags.value = "ada@example.com"
	validateFlags.required = true
	require.NoError(t, runValidate(cmd, nil))
	assert.Contains(t, buf.String(), `"valid": true`)

	buf.Reset()
	validateFlags.kind = "password-confirm"
	validateFlags.value = "Secret1!"
	validateFlags.primary = "Secret2!"
	err := runValidate(cmd, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errInvalidValue))
	assert.Contains(t, buf.String(), `"code": "password_mismatch"`)

	validateFlags.kind = "zip"
	assert.Error(t, runValidate(cmd, nil))
}

type scriptedDriver struct {
	inputs    []string
	passwords []string
	selects   []int
	confirms  []bool
	asked     []string
}

func (d *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Password(_ context.Context, _ tui.InputConfig) (string, error) {
	if len(d.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	val := d.passwords[0]
	d.passwords = d.passwords[1:]
	return val, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := d.confirms[0]
	d.confirms = d.confirms[1:]
	return val, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func promptConfig() *config.Config {
	return &config.Config{
		App:     config.AppSettings{Env: "test"},
		Drafts:  config.DraftsSettings{Driver: config.DriverMemory},
		Session: config.SessionSettings{ToastCapacity: 16},
		UI:      config.UISettings{Locale: "en"},
	}
}

func TestPromptLogin(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := &promptRunner{
		cfg: promptConfig(),
		driver: &scriptedDriver{
			selects:   []int{0},
			inputs:    []string{"ada@example.com"},
			passwords: []string{"hunter22"},
		},
		format: tui.OutputFormatJSON,
		out:    &out,
		errOut: &errOut,
		log:    zap.NewNop(),
	}

	require.NoError(t, runner.run(context.Background(), ""))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &payload))
	assert.Equal(t, map[string]string{
		"form_id":  "loginForm",
		"email":    "ada@example.com",
		"password": "hunter22",
	}, payload)
	assert.Contains(t, errOut.String(), submit.MessageLoginSuccess)
	assert.Contains(t, errOut.String(), "Redirecting to "+submit.DashboardURL)
}

func TestPromptRegisterContinuesWithLogin(t *testing.T) {
	var out, errOut bytes.Buffer
	runner := &promptRunner{
		cfg: promptConfig(),
		driver: &scriptedDriver{
			inputs: []string{
				"Ada", "Lovelace", "ada@example.com", "+1 234 567 8900",
				"ada@example.com",
			},
			passwords: []string{"Secret1!", "Secret1!", "Secret1!"},
			confirms:  []bool{true},
		},
		format: tui.OutputFormatPrettyText,
		out:    &out,
		errOut: &errOut,
		log:    zap.NewNop(),
	}

	require.NoError(t, runner.run(context.Background(), "registerForm"))

	output := out.String()
	assert.Contains(t, output, "form_id=registerForm")
	assert.Contains(t, output, "password=********")
	assert.Contains(t, output, "form_id=loginForm")
	assert.Contains(t, errOut.String(), submit.MessageRegisterSuccess)
	assert.Contains(t, errOut.String(), submit.MessageLoginSuccess)
}

func TestPromptRegisterStopsWhenDeclined(t *testing.T) {
	var out, errOut bytes.Buffer
	driver := &scriptedDriver{
		inputs:    []string{"Ada", "Lovelace", "ada@example.com", "+1 234 567 8900"},
		passwords: []string{"Secret1!", "Secret1!"},
		confirms:  []bool{false},
	}
	runner := &promptRunner{
		cfg:    promptConfig(),
		driver: driver,
		format: tui.OutputFormatFormURLEncoded,
		out:    &out,
		errOut: &errOut,
		log:    zap.NewNop(),
	}

	require.NoError(t, runner.run(context.Background(), "registerForm"))

	assert.Contains(t, out.String(), "form_id=registerForm")
	assert.NotContains(t, out.String(), "form_id=loginForm")
	require.Len(t, driver.asked, 1)
	assert.True(t, strings.HasPrefix(driver.asked[0], "Continue to "))
	assert.NotContains(t, errOut.String(), submit.MessageLoginSuccess)
}

func TestPromptUnknownForm(t *testing.T) {
	runner := &promptRunner{
		cfg:    promptConfig(),
		driver: &scriptedDriver{},
		format: tui.OutputFormatJSON,
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		log:    zap.NewNop(),
	}
	assert.Error(t, runner.run(context.Background(), "missing"))
}
