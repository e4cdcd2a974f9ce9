// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestQuestionIDValidate(t *testing.T) {
	t.Parallel()

	for _, q := range Questions() {
		if err := q.ID.Validate(); err != nil {
			t.Errorf("%s.Validate() = %v", q.ID, err)
		}
	}
	err := QuestionID("install-everything").Validate()
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("Validate() = %v, want ErrUnknownQuestion", err)
	}
	if !strings.Contains(err.Error(), "build-runtime") {
		t.Errorf("error should list valid ids: %v", err)
	}
}

func TestParseAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantID  QuestionID
		want    bool
		wantErr bool
	}{
		{in: "just-compile=yes", wantID: JustCompileID, want: true},
		{in: "build-runtime=N", wantID: BuildRuntimeID, want: false},
		{in: " install-plugin = true ", wantID: InstallPluginID, want: true},
		{in: "build-framework=0", wantID: BuildFrameworkID, want: false},
		{in: "just-compile", wantErr: true},
		{in: "just-compile=maybe", wantErr: true},
		{in: "unknown=yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			id, got, err := ParseAnswer(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAnswer(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnswer(%q) error: %v", tt.in, err)
			}
			if id != tt.wantID || got != tt.want {
				t.Errorf("ParseAnswer(%q) = %s, %v; want %s, %v", tt.in, id, got, tt.wantID, tt.want)
			}
		})
	}
}

func TestScriptedGate(t *testing.T) {
	t.Parallel()

	g := NewScriptedGate(map[QuestionID]bool{JustCompileID: true}, false)
	ctx := context.Background()

	if ok, _ := g.Confirm(ctx, JustCompile); !ok {
		t.Error("preset answer should be returned")
	}
	if ok, _ := g.Confirm(ctx, BuildRuntime); ok {
		t.Error("unset question should get the default")
	}
	if err := g.Pause(ctx, "Press any key"); err != nil {
		t.Errorf("Pause() = %v", err)
	}

	if got := g.Asked(); !slices.Equal(got, []QuestionID{JustCompileID, BuildRuntimeID}) {
		t.Errorf("Asked() = %v", got)
	}
	if got := g.Pauses(); !slices.Equal(got, []string{"Press any key"}) {
		t.Errorf("Pauses() = %v", got)
	}
}

func TestScriptedGate_Fallback(t *testing.T) {
	t.Parallel()

	inner := NewScriptedGate(map[QuestionID]bool{BuildFrameworkID: true}, false)
	g := &ScriptedGate{Answers: map[QuestionID]bool{BuildRuntimeID: false}, Fallback: inner}
	ctx := context.Background()

	if ok, _ := g.Confirm(ctx, BuildFramework); !ok {
		t.Error("unset question should be passed to the fallback")
	}
	if ok, _ := g.Confirm(ctx, BuildRuntime); ok {
		t.Error("preset answer should win over the fallback")
	}
	if got := inner.Asked(); !slices.Equal(got, []QuestionID{BuildFrameworkID}) {
		t.Errorf("fallback asked %v", got)
	}
}

func TestScriptedGate_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewScriptedGate(nil, true).Confirm(ctx, JustCompile); !errors.Is(err, context.Canceled) {
		t.Errorf("Confirm() = %v, want context.Canceled", err)
	}
}

func TestTerminalGate_LineInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "lower y", input: "y\n", want: true},
		{name: "upper Y", input: "Y\n", want: true},
		{name: "yes word", input: "yes please\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "other key", input: "x\n", want: false},
		{name: "empty line", input: "\n", want: false},
		{name: "end of input", input: "", want: false},
		{name: "no trailing newline", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			g := NewTerminalGate(strings.NewReader(tt.input), &out)
			if g.Interactive() {
				t.Fatal("strings.Reader must not be treated as a terminal")
			}
			got, err := g.Confirm(context.Background(), BuildRuntime)
			if err != nil {
				t.Fatalf("Confirm() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), BuildRuntime.Text+" [y/n]") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}

func TestTerminalGate_ReadsOneLinePerQuestion(t *testing.T) {
	t.Parallel()

	g := NewTerminalGate(strings.NewReader("n\ny\n\n"), &bytes.Buffer{})
	ctx := context.Background()

	first, _ := g.Confirm(ctx, JustCompile)
	second, _ := g.Confirm(ctx, InstallPlugin)
	if first || !second {
		t.Errorf("answers = %v, %v; want false, true", first, second)
	}
	if err := g.Pause(ctx, "Press any key to exit"); err != nil {
		t.Errorf("Pause() = %v", err)
	}
}

func TestKeyModel_Update(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		msg             tea.KeyMsg
		wantAnswer      bool
		wantInterrupted bool
	}{
		{name: "y", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, wantAnswer: true},
		{name: "Y", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}}, wantAnswer: true},
		{name: "n", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, wantInterrupted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &keyModel{prompt: "Continue? [y/n]"}
			next, cmd := m.Update(tt.msg)
			if cmd == nil {
				t.Fatal("any key should quit the program")
			}
			km := next.(*keyModel)
			if km.answer != tt.wantAnswer || km.interrupted != tt.wantInterrupted {
				t.Errorf("answer=%v interrupted=%v, want %v %v", km.answer, km.interrupted, tt.wantAnswer, tt.wantInterrupted)
			}
		})
	}
}

func TestKeyModel_View(t *testing.T) {
	t.Parallel()

	m := &keyModel{prompt: "Continue? [y/n]"}
	if !strings.Contains(m.View(), "Continue? [y/n]") {
		t.Errorf("View() before answer = %q", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if !strings.HasSuffix(m.View(), "y\n") {
		t.Errorf("View() after answer = %q", m.View())
	}

	p := &keyModel{prompt: "Press any key", pause: true}
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.View() != "" {
		t.Errorf("pause View() after key = %q, want empty", p.View())
	}

	// Non-key messages are ignored.
	if _, cmd := (&keyModel{}).Update(tea.WindowSizeMsg{Width: 80}); cmd != nil {
		t.Error("window size message should not quit")
	}
}
