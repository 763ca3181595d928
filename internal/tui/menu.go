// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// NavIndex is the index a Picker returns when the navigation entry is chosen.
const NavIndex = -1

// ErrCancelled is returned by callers that abandon a flow because the user
// interrupted a prompt.
var ErrCancelled = errors.New("user cancelled")

type (
	// NavOption is the navigation entry listed first in every menu.
	NavOption int

	// ChoiceKind tags the outcome of a menu.
	ChoiceKind int

	// Menu describes a single-choice list of items.
	Menu[T any] struct {
		Title string
		Items []T
		// Label renders an item for display.
		Label func(T) string
		Nav   NavOption
	}

	// Choice is the outcome of Pick. Item and Index are set only for Selected.
	Choice[T any] struct {
		Kind  ChoiceKind
		Item  T
		Index int
	}

	// Prompt is the rendered form of a Menu handed to a Picker.
	Prompt struct {
		Title    string
		NavLabel string
		Options  []string
		// Default is the index of the initially highlighted option.
		Default int
	}

	// Picker presents a Prompt and returns the index of the chosen option, or
	// NavIndex for the navigation entry.
	Picker interface {
		Pick(ctx context.Context, p Prompt) (int, error)
	}

	// SelectionError reports a picker result that does not map to any option.
	SelectionError struct {
		Index int
		Count int
	}
)

const (
	// NavExit labels the navigation entry "Exit".
	NavExit NavOption = iota
	// NavBack labels the navigation entry "Back".
	NavBack
)

const (
	// Selected means an item was chosen.
	Selected ChoiceKind = iota
	// NavigateBack means the navigation entry (Exit or Back) was chosen.
	NavigateBack
	// Cancelled means the prompt was interrupted or input ended.
	Cancelled
)

// String returns the label shown for the navigation entry.
func (n NavOption) String() string {
	if n == NavBack {
		return "Back"
	}
	return "Exit"
}

func (k ChoiceKind) String() string {
	switch k {
	case Selected:
		return "selected"
	case NavigateBack:
		return "navigate-back"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("ChoiceKind(%d)", int(k))
	}
}

// Error formats the failure for display.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection: index %d is outside the %d available options", e.Index, e.Count)
}

// Pick shows m through p and maps the answer back to an item.
//
// Interrupting the prompt, reaching end of input or cancelling ctx yields a
// Cancelled choice with a nil error. Any other picker failure is returned as-is.
func Pick[T any](ctx context.Context, p Picker, m Menu[T]) (Choice[T], error) {
	prompt := Prompt{
		Title:    m.Title,
		NavLabel: m.Nav.String(),
		Options:  make([]string, len(m.Items)),
		Default:  NavIndex,
	}
	for i, item := range m.Items {
		if m.Label != nil {
			prompt.Options[i] = m.Label(item)
		} else {
			prompt.Options[i] = fmt.Sprint(item)
		}
	}
	if len(m.Items) > 0 {
		prompt.Default = 0
	}

	idx, err := p.Pick(ctx, prompt)
	if err != nil {
		if isCancellation(ctx, err) {
			return Choice[T]{Kind: Cancelled}, nil
		}
		return Choice[T]{}, err
	}

	if idx == NavIndex {
		return Choice[T]{Kind: NavigateBack}, nil
	}
	if idx < 0 || idx >= len(m.Items) {
		return Choice[T]{}, &SelectionError{Index: idx, Count: len(m.Items)}
	}

	return Choice[T]{Kind: Selected, Item: m.Items[idx], Index: idx}, nil
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, ErrCancelled) ||
		errors.Is(err, huh.ErrUserAborted) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.Canceled)
}
