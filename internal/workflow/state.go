// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"slices"

	"github.com/unrealclr/hotcompiler/internal/build"
	"github.com/unrealclr/hotcompiler/pkg/types"
)

const (
	StateStart State = iota
	StateProjectValidated
	StatePluginInstalled
	StatePluginValidated
	StateSourceInstalled
	StateRuntimeBuilt
	StateFrameworkBuilt
	StateModulesBuilt
	StateDone
	StateFailed
)

const (
	KindValidate StepKind = iota
	KindConfirm
	KindSync
	KindBuild
)

const (
	OutcomeSuccess StepOutcome = iota
	OutcomeSkipped
	OutcomeWarning
	OutcomeFatal
)

type (
	// State is a position in the run.
	State int

	// StepKind classifies a StepRecord.
	StepKind int

	// StepOutcome is how a step ended. Skipped means a declined gate.
	StepOutcome int

	// StepRecord is one executed step.
	StepRecord struct {
		Kind    StepKind
		Name    string
		Outcome StepOutcome
		Detail  string
		// Err is the error that ended the step, if any.
		Err error
	}

	// Result is the outcome of a whole run.
	Result struct {
		State    State
		ExitCode types.ExitCode
		// Trace lists every state entered, starting with StateStart.
		Trace  []State
		Steps  []StepRecord
		Builds []build.Outcome
		// Err is the fatal error when State is StateFailed.
		Err error
	}
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateProjectValidated:
		return "ProjectValidated"
	case StatePluginInstalled:
		return "PluginInstalled"
	case StatePluginValidated:
		return "PluginValidated"
	case StateSourceInstalled:
		return "SourceInstalled"
	case StateRuntimeBuilt:
		return "RuntimeBuilt"
	case StateFrameworkBuilt:
		return "FrameworkBuilt"
	case StateModulesBuilt:
		return "ModulesBuilt"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (k StepKind) String() string {
	switch k {
	case KindValidate:
		return "validate"
	case KindConfirm:
		return "confirm"
	case KindSync:
		return "sync"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

func (o StepOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWarning:
		return "warning"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// StepsOf returns the recorded steps of the given kind.
func (r Result) StepsOf(kind StepKind) []StepRecord {
	var out []StepRecord
	for _, s := range r.Steps {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Reached reports whether the run entered s.
func (r Result) Reached(s State) bool {
	return slices.Contains(r.Trace, s)
}
