package fsm

import (
	"context"
	"errors"
	"slices"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/growspace/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// events converts domain.PlantTransitions into looplab/fsm EventDesc format.
// Transitions with the same event and destination collapse into one
// EventDesc with several sources (e.g. "die" from PLANTED and GROWING).
var events = buildEvents()

// destinations maps each lifecycle event to the status it leads to.
var destinations = buildDestinations()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.PlantTransitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

func buildDestinations() map[string]string {
	out := make(map[string]string, len(events))
	for _, e := range events {
		out[e.Name] = e.Dst
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM per Apply call, initialized with the plant's
// current status, since looplab/fsm tracks state internally.
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Apply moves a plant from current to target if a lifecycle event connects
// them, and returns the resulting status. It returns a domain.TransitionError
// otherwise.
func (v *Validator) Apply(ctx context.Context, current, target domain.PlantStatus) (domain.PlantStatus, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	available := machine.AvailableTransitions()
	slices.Sort(available)
	idx := slices.IndexFunc(available, func(event string) bool {
		return destinations[event] == string(target)
	})
	if idx < 0 {
		return current, &domain.TransitionError{Current: current, Target: target}
	}

	if err := machine.Event(ctx, available[idx]); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return current, &domain.TransitionError{Current: current, Target: target}
		}
		return current, err
	}

	return domain.PlantStatus(machine.Current()), nil
}
