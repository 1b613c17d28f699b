// Package statespace enumerates combinations of state transitions and asserts invariants
// against every one of them.
package statespace

import (
	"math/rand/v2"
	"strings"
	"testing"
)

// Model evaluates a subject against every subset of a set of named transitions.
// Transitions within a subset are applied in random order, so they should commute.
// Subjects with more than a handful of transitions are better served by fuzzing.
type Model[State any, Result any] struct {
	initial     func() State
	subject     func(State) Result
	transitions []transition[State]
	invariants  []invariant[State, Result]
}

type transition[S any] struct {
	Name string
	Func func(S) S
}

type invariant[S any, R any] struct {
	Name   string
	Assert func(S, R) bool
}

// Test creates a model for the given subject.
func Test[S any, R any](fn func(S) R) *Model[S, R] { return &Model[S, R]{subject: fn} }

// WithInitialState sets the constructor for the state each subset starts from.
// The zero value is used when unset.
func (m *Model[S, R]) WithInitialState(fn func() S) *Model[S, R] {
	m.initial = fn
	return m
}

func (m *Model[S, R]) WithMutation(name string, fn func(S) S) *Model[S, R] {
	m.transitions = append(m.transitions, transition[S]{Name: name, Func: fn})
	return m
}

func (m *Model[S, R]) WithInvariant(name string, fn func(state S, result R) bool) *Model[S, R] {
	m.invariants = append(m.invariants, invariant[S, R]{Name: name, Assert: fn})
	return m
}

// Evaluate runs every subset and reports each failed invariant on t.
func (m *Model[S, R]) Evaluate(t *testing.T) {
	t.Helper()
	m.evaluate(t.Errorf)
}

func (m *Model[S, R]) evaluate(fail func(msg string, args ...any)) {
	for _, enabled := range m.subsets() {
		var state S
		if m.initial != nil {
			state = m.initial()
		}
		for _, i := range rand.Perm(len(enabled)) {
			if enabled[i] {
				state = m.transitions[i].Func(state)
			}
		}

		result := m.subject(state)
		for _, inv := range m.invariants {
			if !inv.Assert(state, result) {
				fail("invariant '%s' failed with mutation stack: [%s]", inv.Name, m.describe(enabled))
			}
		}
	}
}

// subsets returns every combination of enabled transitions in random order.
// An empty model yields a single subset with nothing enabled.
func (m *Model[S, R]) subsets() [][]bool {
	n := len(m.transitions)
	if n >= 31 {
		return nil
	}

	all := make([][]bool, 0, 1<<n)
	for bits := 0; bits < 1<<n; bits++ {
		enabled := make([]bool, n)
		for j := range enabled {
			enabled[j] = bits&(1<<j) != 0
		}
		all = append(all, enabled)
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all
}

func (m *Model[S, R]) describe(enabled []bool) string {
	var names []string
	for i, on := range enabled {
		if on {
			names = append(names, m.transitions[i].Name)
		}
	}
	return strings.Join(names, ", ")
}
