// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Question identifiers accepted by --answer and the answers config map.
const (
	JustCompileID       QuestionID = "just-compile"
	InstallPluginID     QuestionID = "install-plugin"
	InstallManagedID    QuestionID = "install-managed"
	InstallGameSourceID QuestionID = "install-game-source"
	BuildRuntimeID      QuestionID = "build-runtime"
	BuildFrameworkID    QuestionID = "build-framework"
)

var (
	// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C.
	ErrInterrupted = errors.New("prompt interrupted")

	// ErrUnknownQuestion is the sentinel wrapped by UnknownQuestionError.
	ErrUnknownQuestion = errors.New("unknown question")

	JustCompile = Question{
		ID:   JustCompileID,
		Text: "Would you just like to compile the game source?",
	}
	InstallPlugin = Question{
		ID:   InstallPluginID,
		Text: "Installation will delete all previous files of the plugin. Do you want to continue?",
	}
	InstallManaged = Question{
		ID:   InstallManagedID,
		Text: "Installation will delete all previous managed framework and runtime source files. Do you want to continue?",
	}
	InstallGameSource = Question{
		ID:   InstallGameSourceID,
		Text: "Installation will copy the base game source next to your modules. Do you want to continue?",
	}
	BuildRuntime = Question{
		ID:   BuildRuntimeID,
		Text: "Would you like to compile the managed runtime?",
	}
	BuildFramework = Question{
		ID:   BuildFrameworkID,
		Text: "Would you like to compile the framework?",
	}

	questions = []Question{JustCompile, InstallPlugin, InstallManaged, InstallGameSource, BuildRuntime, BuildFramework}
)

type (
	// QuestionID is the stable name of a Question.
	QuestionID string

	// Question is one yes/no decision asked during a run.
	Question struct {
		ID   QuestionID
		Text string
	}

	// Gate answers yes/no questions and waits for acknowledgement.
	Gate interface {
		// Confirm returns true only for an explicit yes.
		Confirm(ctx context.Context, q Question) (bool, error)
		// Pause shows message and blocks until the user presses a key.
		Pause(ctx context.Context, message string) error
	}

	// UnknownQuestionError is returned when parsing a QuestionID that no
	// Question uses.
	UnknownQuestionError struct {
		Value string
	}
)

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("unknown question %q (valid: %s)", e.Value, strings.Join(QuestionIDs(), ", "))
}

func (e *UnknownQuestionError) Unwrap() error { return ErrUnknownQuestion }

// Questions returns every question in the order a full run asks them.
func Questions() []Question {
	return slices.Clone(questions)
}

// QuestionIDs returns the identifiers of every question.
func QuestionIDs() []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = string(q.ID)
	}
	return ids
}

// Validate returns an error unless id names a known question.
func (id QuestionID) Validate() error {
	for _, q := range questions {
		if q.ID == id {
			return nil
		}
	}
	return &UnknownQuestionError{Value: string(id)}
}

// ParseAnswer turns "key=value" into a question and its answer. Accepted
// values are yes/no, y/n, true/false and 1/0, case-insensitively.
func ParseAnswer(s string) (QuestionID, bool, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", false, fmt.Errorf("answer %q must have the form question=yes|no", s)
	}
	id := QuestionID(strings.TrimSpace(key))
	if err := id.Validate(); err != nil {
		return "", false, err
	}
	answer, err := ParseBool(value)
	if err != nil {
		return "", false, fmt.Errorf("answer for %s: %w", id, err)
	}
	return id, answer, nil
}

// ParseBool parses a yes/no style value.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not yes or no", value)
	}
}
