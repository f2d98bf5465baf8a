package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-authform/pkg/strength"
)

var scoreUserInputs []string

var scoreCmd = &cobra.Command{
	Use:   "score [password]",
	Short: "Score a password against the complexity criteria",
	Long: `Print the 0-5 complexity score, its level and the hints for the unmet
criteria as JSON, together with an advisory guessability estimate. The
password is read from stdin when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringSliceVar(&scoreUserInputs, "user-input", nil, "words that make the password easier to guess (name, email)")
}

type scoreOutput struct {
	strength.Result
	Estimate strength.Estimate `json:"estimate"`
}

func runScore(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		password = strings.TrimRight(string(data), "\r\n")
	}
	if password == "" {
		return errors.New("password is required")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(scoreOutput{
		Result:   strength.Score(password),
		Estimate: strength.EstimateOf(password, scoreUserInputs...),
	})
}
