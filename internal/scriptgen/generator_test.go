package scriptgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/five82/auragen/internal/meditation"
)

type fakeCompleter struct {
	content    string
	err        error
	gotSystem  string
	gotUser    string
	callsCount int
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.callsCount++
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	return f.content, f.err
}

const sixSentences = `{"script":["Breathe in.","Hold.","Breathe out.","Listen to the waves.","Inhale salt air.","Exhale and rest."]}`

func TestGenerate_ReturnsSixSentences(t *testing.T) {
	fake := &fakeCompleter{content: sixSentences}
	gen := New(fake, nil)

	script, err := gen.Generate(context.Background(), "  Quiet Beach ")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(script) != meditation.ScriptLength || script[0] != "Breathe in." {
		t.Fatalf("script = %v, want six sentences", script)
	}
	if fake.gotUser != "Location: Quiet Beach" {
		t.Fatalf("user prompt = %q, want %q", fake.gotUser, "Location: Quiet Beach")
	}
	if !strings.Contains(fake.gotSystem, "exactly 6 short, soothing sentences") {
		t.Fatalf("system prompt = %q, want six sentence instruction", fake.gotSystem)
	}
}

func TestGenerate_RejectsBlankLocation(t *testing.T) {
	fake := &fakeCompleter{content: sixSentences}
	_, err := New(fake, nil).Generate(context.Background(), "   ")
	if !errors.Is(err, meditation.ErrEmptyLocation) {
		t.Fatalf("Generate blank = %v, want ErrEmptyLocation", err)
	}
	if fake.callsCount != 0 {
		t.Fatalf("completer called %d times, want 0", fake.callsCount)
	}
}

func TestGenerate_WrapsCompleterErrors(t *testing.T) {
	upstream := errors.New("connection reset")
	_, err := New(&fakeCompleter{err: upstream}, nil).Generate(context.Background(), "lake")
	if !errors.Is(err, upstream) {
		t.Fatalf("Generate error = %v, want wrapped upstream error", err)
	}
	if errors.Is(err, ErrUnexpectedFormat) {
		t.Fatalf("transport error should not be reported as a format error")
	}
}

func TestParseScript(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", sixSentences, false},
		{"fenced", "```json\n" + sixSentences + "\n```", false},
		{"five sentences", `{"script":["a","b","c","d","e"]}`, true},
		{"seven sentences", `{"script":["a","b","c","d","e","f","g"]}`, true},
		{"blank sentence", `{"script":["a","b"," ","d","e","f"]}`, true},
		{"wrong key", `{"lines":["a","b","c","d","e","f"]}`, true},
		{"not strings", `{"script":[1,2,3,4,5,6]}`, true},
		{"not json", `Breathe in. Breathe out.`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScript(tc.content)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseScript error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnexpectedFormat) {
				t.Fatalf("ParseScript error = %v, want ErrUnexpectedFormat", err)
			}
		})
	}
}
