// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func scriptedHuhPicker(input string) *HuhPicker {
	return NewHuhPicker(Config{Input: strings.NewReader(input), Output: io.Discard})
}

func versionMenu() Menu[string] {
	return Menu[string]{Title: "Select a release", Items: []string{"v1.0", "v0.9"}, Nav: NavExit}
}

func TestHuhPicker_NumberSelectsItem(t *testing.T) {
	t.Parallel()

	// Option 1 is the navigation entry, so "3" is the second item.
	choice, err := Pick(context.Background(), scriptedHuhPicker("3\n"), versionMenu())
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if choice.Kind != Selected || choice.Index != 1 || choice.Item != "v0.9" {
		t.Errorf("unexpected choice: %+v", choice)
	}
}

func TestHuhPicker_UnterminatedAnswer(t *testing.T) {
	t.Parallel()

	choice, err := Pick(context.Background(), scriptedHuhPicker("2"), versionMenu())
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if choice.Kind != Selected || choice.Item != "v1.0" {
		t.Errorf("unexpected choice: %+v", choice)
	}
}

func TestHuhPicker_NavigationEntry(t *testing.T) {
	t.Parallel()

	idx, err := scriptedHuhPicker("1\n").Pick(context.Background(), Prompt{
		Title:    "Select an asset",
		NavLabel: NavBack.String(),
		Options:  []string{"app.zip"},
	})
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if idx != NavIndex {
		t.Errorf("Pick() = %d, want NavIndex", idx)
	}
}

func TestHuhPicker_EmptyAnswerUsesDefault(t *testing.T) {
	t.Parallel()

	choice, err := Pick(context.Background(), scriptedHuhPicker("\n"), versionMenu())
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if choice.Kind != Selected || choice.Index != 0 || choice.Item != "v1.0" {
		t.Errorf("expected the first item to be highlighted, got %+v", choice)
	}
}

func TestHuhPicker_EndOfInputCancels(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "9\n", "abc\n"} {
		idx, err := scriptedHuhPicker(input).Pick(context.Background(), Prompt{
			Title:    "Select a release",
			NavLabel: NavExit.String(),
			Options:  []string{"v1.0", "v0.9"},
		})
		if !errors.Is(err, io.EOF) {
			t.Errorf("input %q: Pick() = (%d, %v), want io.EOF", input, idx, err)
		}

		choice, err := Pick(context.Background(), scriptedHuhPicker(input), versionMenu())
		if err != nil {
			t.Fatalf("input %q: Pick() error: %v", input, err)
		}
		if choice.Kind != Cancelled {
			t.Errorf("input %q: expected cancelled choice, got %+v", input, choice)
		}
	}
}

func TestHuhPicker_SequentialPromptsShareInput(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("2\n1\n")
	p := NewHuhPicker(Config{Input: in, Output: io.Discard})

	first, err := Pick(context.Background(), p, versionMenu())
	if err != nil {
		t.Fatalf("first Pick() error: %v", err)
	}
	if first.Kind != Selected || first.Item != "v1.0" {
		t.Errorf("first choice: %+v", first)
	}

	second, err := Pick(context.Background(), p, Menu[string]{Items: []string{"app.zip"}, Nav: NavBack})
	if err != nil {
		t.Fatalf("second Pick() error: %v", err)
	}
	if second.Kind != NavigateBack {
		t.Errorf("second choice: %+v", second)
	}
}

func TestHuhPicker_ContextCancelUnblocksPrompt(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	t.Cleanup(func() {
		_ = pw.Close()
		_ = pr.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	p := NewHuhPicker(Config{Input: pr, Output: io.Discard})

	type outcome struct {
		choice Choice[string]
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		choice, err := Pick(ctx, p, versionMenu())
		done <- outcome{choice, err}
	}()

	time.AfterFunc(50*time.Millisecond, cancel)

	select {
	case got := <-done:
		if got.err != nil {
			t.Fatalf("Pick() error: %v", got.err)
		}
		if got.choice.Kind != Cancelled {
			t.Errorf("expected cancelled choice, got %+v", got.choice)
		}
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("Pick() did not return after the context was cancelled")
	}
}

func TestHuhPicker_CancelledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scriptedHuhPicker("2\n").Pick(ctx, Prompt{NavLabel: "Exit", Options: []string{"v1.0"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Pick() error = %v, want context.Canceled", err)
	}
}
