// SPDX-License-Identifier: MPL-2.0

package prompt

import (
	"context"
	"sync"
)

// ScriptedGate answers from a preset map. Questions without a preset are
// passed to Fallback when it is set, otherwise they get Default.
type ScriptedGate struct {
	Answers  map[QuestionID]bool
	Default  bool
	Fallback Gate

	mu     sync.Mutex
	asked  []QuestionID
	pauses []string
}

// NewScriptedGate creates a ScriptedGate with the given presets.
func NewScriptedGate(answers map[QuestionID]bool, def bool) *ScriptedGate {
	return &ScriptedGate{Answers: answers, Default: def}
}

// Confirm implements Gate.
func (g *ScriptedGate) Confirm(ctx context.Context, q Question) (bool, error) {
	g.mu.Lock()
	g.asked = append(g.asked, q.ID)
	g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if answer, ok := g.Answers[q.ID]; ok {
		return answer, nil
	}
	if g.Fallback != nil {
		return g.Fallback.Confirm(ctx, q)
	}
	return g.Default, nil
}

// Pause implements Gate. It records the message and returns immediately
// unless a Fallback is set.
func (g *ScriptedGate) Pause(ctx context.Context, message string) error {
	g.mu.Lock()
	g.pauses = append(g.pauses, message)
	g.mu.Unlock()

	if g.Fallback != nil {
		return g.Fallback.Pause(ctx, message)
	}
	return nil
}

// Asked returns the questions asked so far, in order.
func (g *ScriptedGate) Asked() []QuestionID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]QuestionID(nil), g.asked...)
}

// Pauses returns the pause messages shown so far.
func (g *ScriptedGate) Pauses() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.pauses...)
}
