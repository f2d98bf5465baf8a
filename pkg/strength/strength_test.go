package strength

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var allHints = []string{
	"At least 8 characters",
	"Include lowercase letters",
	"Include uppercase letters",
	"Include numbers",
	"Include special characters",
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     Result
	}{
		{
			name:     "empty",
			password: "",
			want:     Result{Score: 0, Level: LevelWeak, Feedback: allHints},
		},
		{
			name:     "all criteria",
			password: "Abc12345!",
			want:     Result{Score: 5, Level: LevelStrong},
		},
		{
			name:     "lowercase only",
			password: "abcdefgh",
			want: Result{Score: 2, Level: LevelWeak, Feedback: []string{
				"Include uppercase letters",
				"Include numbers",
				"Include special characters",
			}},
		},
		{
			name:     "missing special",
			password: "abcdefG1",
			want: Result{Score: 4, Level: LevelStrong, Feedback: []string{
				"Include special characters",
			}},
		},
		{
			name:     "short mixed",
			password: "aB1",
			want: Result{Score: 3, Level: LevelMedium, Feedback: []string{
				"At least 8 characters",
				"Include special characters",
			}},
		},
		{
			name:     "space counts as special",
			password: "a b",
			want: Result{Score: 2, Level: LevelWeak, Feedback: []string{
				"At least 8 characters",
				"Include uppercase letters",
				"Include numbers",
			}},
		},
		{
			name:     "non ascii letters are special",
			password: "ñandú",
			want: Result{Score: 2, Level: LevelWeak, Feedback: []string{
				"At least 8 characters",
				"Include uppercase letters",
				"Include numbers",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.password)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Score(%q) mismatch (-want +got):\n%s", tt.password, diff)
			}
		})
	}
}

func TestScoreLowercaseEightCharsScoresTwo(t *testing.T) {
	// length + lowercase
	got := Score("abcdefgh")
	if got.Score != 2 || got.Level != LevelWeak {
		t.Fatalf("expected 2/weak, got %d/%s", got.Score, got.Level)
	}
}

func TestLevelFor(t *testing.T) {
	want := map[int]Level{
		0: LevelWeak,
		1: LevelWeak,
		2: LevelWeak,
		3: LevelMedium,
		4: LevelStrong,
		5: LevelStrong,
	}
	for score, level := range want {
		if got := LevelFor(score); got != level {
			t.Fatalf("LevelFor(%d) = %s, want %s", score, got, level)
		}
	}
}

func TestScoreMatchesSatisfiedCriteria(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcXYZ019!@ \tñ日")
	for i := 0; i < 500; i++ {
		n := rng.Intn(14)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		password := b.String()

		satisfied := 0
		for _, c := range Criteria() {
			if c.Satisfied(password) {
				satisfied++
			}
		}

		got := Score(password)
		if got.Score != satisfied {
			t.Fatalf("Score(%q) = %d, satisfied criteria = %d", password, got.Score, satisfied)
		}
		if got.Score < 0 || got.Score > MaxScore {
			t.Fatalf("Score(%q) out of range: %d", password, got.Score)
		}
		if len(got.Feedback) != MaxScore-got.Score {
			t.Fatalf("Score(%q) feedback length %d for score %d", password, len(got.Feedback), got.Score)
		}
	}
}

func TestCriteriaAreMonotonicUnderAppend(t *testing.T) {
	base := []string{"", "a", "A1", "abc!", "ABCDEFG"}
	suffixes := []string{"x", "Y", "7", "#", "longer-suffix"}
	for _, password := range base {
		for _, suffix := range suffixes {
			before := Score(password)
			after := Score(password + suffix)
			for _, c := range Criteria() {
				if before.Met(c.Name) && !after.Met(c.Name) {
					t.Fatalf("criterion %s lost after appending %q to %q", c.Name, suffix, password)
				}
			}
			if after.Score < before.Score {
				t.Fatalf("score decreased from %d to %d appending %q to %q", before.Score, after.Score, suffix, password)
			}
		}
	}
}

func TestScoreIsSafeForConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := Score("Abc12345!"); got.Score != 5 {
					t.Errorf("unexpected score %d", got.Score)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCriteriaReturnsCopy(t *testing.T) {
	list := Criteria()
	list[0].Hint = "mutated"
	if Criteria()[0].Hint != "At least 8 characters" {
		t.Fatalf("Criteria exposed internal slice")
	}
}

func TestEstimateOf(t *testing.T) {
	if got := EstimateOf(""); got != (Estimate{}) {
		t.Fatalf("expected zero estimate for empty password, got %+v", got)
	}

	weak := EstimateOf("password")
	strong := EstimateOf("C0mplex!Passphrase#2025")
	if weak.Guessability >= strong.Guessability {
		t.Fatalf("expected strong passphrase to out-score 'password': %d vs %d", weak.Guessability, strong.Guessability)
	}
	if strong.CrackTime == "" {
		t.Fatalf("expected crack time display")
	}
}
