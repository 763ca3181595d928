// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

type (
	// HuhPicker renders prompts as huh select fields.
	HuhPicker struct {
		Config Config
	}

	// promptReader feeds accessible prompts one line at a time. When input
	// ends or ctx is done it answers with an empty line, so the prompt
	// settles on its default, and records why so Pick can report it.
	promptReader struct {
		ctx     context.Context
		in      io.Reader
		pending []byte
		// partial is set while a non-blank line is missing its newline.
		partial bool
		readErr error
		// endErr is set once input ended with no answer pending.
		endErr error
	}

	lineResult struct {
		line []byte
		err  error
	}
)

// NewHuhPicker creates a HuhPicker using cfg.
func NewHuhPicker(cfg Config) *HuhPicker {
	return &HuhPicker{Config: cfg}
}

// Pick implements Picker. The navigation entry is listed first and maps to NavIndex.
// End of input is reported as io.EOF and an interrupted prompt as ctx.Err().
func (p *HuhPicker) Pick(ctx context.Context, prompt Prompt) (int, error) {
	result := prompt.Default

	huhOpts := make([]huh.Option[int], 0, len(prompt.Options)+1)
	huhOpts = append(huhOpts, huh.NewOption(prompt.NavLabel, NavIndex))
	for i, opt := range prompt.Options {
		huhOpts = append(huhOpts, huh.NewOption(opt, i))
	}

	sel := huh.NewSelect[int]().
		Title(prompt.Title).
		Options(huhOpts...).
		Value(&result)

	if p.Config.Height > 0 {
		sel = sel.Height(p.Config.Height)
	}

	accessible := shouldUseAccessible(p.Config)
	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(getHuhTheme(p.Config.Theme)).
		WithAccessible(accessible).
		WithOutput(getOutputWriter(p.Config)).
		WithShowHelp(false)

	var in *promptReader
	switch {
	case accessible:
		in = newPromptReader(ctx, cmp.Or[io.Reader](p.Config.Input, os.Stdin))
		form = form.WithInput(in)
	case p.Config.Input != nil:
		form = form.WithInput(p.Config.Input)
	}

	if err := form.RunWithContext(ctx); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if in != nil && in.endErr != nil {
		return 0, in.endErr
	}

	return result, nil
}

func newPromptReader(ctx context.Context, in io.Reader) *promptReader {
	return &promptReader{ctx: ctx, in: in}
}

// Read hands out at most one line per call so input meant for later prompts
// stays in the underlying reader.
func (r *promptReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}
	if r.readErr != nil || r.ctx.Err() != nil {
		return r.settle(p), nil
	}

	ch := make(chan lineResult, 1)
	go func() {
		line, err := readLine(r.in)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-r.ctx.Done():
		return r.settle(p), nil
	case res := <-ch:
		r.readErr = res.err
		if len(res.line) == 0 {
			return r.settle(p), nil
		}
		r.partial = !bytes.HasSuffix(res.line, []byte("\n")) && len(bytes.TrimSpace(res.line)) > 0
		n := copy(p, res.line)
		r.pending = res.line[n:]
		return n, nil
	}
}

// settle writes a newline into p. It completes an unterminated answer, or
// otherwise records that no answer will come.
func (r *promptReader) settle(p []byte) int {
	if !r.partial && r.endErr == nil && r.readErr != nil {
		r.endErr = r.readErr
	}
	r.partial = false
	p[0] = '\n'
	return 1
}

// readLine reads up to and including the next newline, one byte at a time.
// err is non-nil only when the line could not be completed.
func readLine(in io.Reader) ([]byte, error) {
	var (
		line []byte
		b    [1]byte
	)
	for {
		n, err := in.Read(b[:])
		if n > 0 {
			line = append(line, b[0])
			if b[0] == '\n' {
				return line, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				err = io.EOF
			}
			return line, err
		}
	}
}
