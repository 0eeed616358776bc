// Package prompt implements the operator's selection loop.
//
// A Prompter is the only place where bluectl waits for operator input. Every
// question is asked synchronously and answered with an explicit Outcome.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/bluetuith-org/bluectl/api/bluetooth"
)

// OutcomeKind describes how the operator answered a selection.
type OutcomeKind int

const (
	Chosen OutcomeKind = iota
	Retry
	Quit
)

func (o OutcomeKind) String() string {
	switch o {
	case Chosen:
		return "chosen"
	case Retry:
		return "retry"
	case Quit:
		return "quit"
	}

	return "unknown"
}

// Outcome is the answer to a selection. Index is only meaningful for Chosen,
// and is then always within the bounds of the presented items.
type Outcome struct {
	Kind  OutcomeKind
	Index int
}

const (
	retryInput = "r"
	quitInput  = "q"

	emptyPrompt     = "No devices found (r=retry, q=quit): "
	selectPrompt    = "Select your choice (r=retry, q=quit): "
	wrongOption     = "Wrong option"
	retryQuitPrompt = "(press r for retry or q to quit): "
)

// Item is a selectable entry.
type Item interface {
	// Key returns the address identifying the item.
	Key() bluetooth.MacAddress

	// Fields returns the values that are joined to render the item.
	Fields() []string
}

// Prompter asks the operator questions.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	lines     chan string
	startRead sync.Once
}

// New returns a prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan string),
	}
}

// Select presents the labels as a numbered list and waits for the operator to
// choose one of them, or to ask for a retry or to quit. Any other answer is
// rejected and the question is asked again. If there are no labels, only
// retry or quit are accepted.
// Running out of input, or cancelling ctx, is treated as quitting.
func (p *Prompter) Select(ctx context.Context, title string, labels []string) Outcome {
	fmt.Fprintln(p.out, title)

	question := emptyPrompt
	if len(labels) > 0 {
		question = selectPrompt
		for i, label := range labels {
			fmt.Fprintf(p.out, "%d. %s\n", i+1, label)
		}
	}

	for first := true; ; first = false {
		if !first {
			fmt.Fprintln(p.out, wrongOption)
		}

		answer, ok := p.ask(ctx, question)
		if !ok {
			return Outcome{Kind: Quit}
		}

		switch answer {
		case retryInput:
			return Outcome{Kind: Retry}

		case quitInput:
			return Outcome{Kind: Quit}
		}

		if index, ok := parseChoice(answer, len(labels)); ok {
			return Outcome{Kind: Chosen, Index: index}
		}
	}
}

// RetryOrQuit asks the operator whether to retry or to quit, until one of
// the two is answered.
func (p *Prompter) RetryOrQuit(ctx context.Context) Outcome {
	for {
		answer, ok := p.ask(ctx, retryQuitPrompt)
		if !ok {
			return Outcome{Kind: Quit}
		}

		switch answer {
		case retryInput:
			return Outcome{Kind: Retry}

		case quitInput:
			return Outcome{Kind: Quit}
		}
	}
}

// Ask prints the question and returns the operator's answer.
// It reports false if no answer could be read before ctx was cancelled.
func (p *Prompter) Ask(ctx context.Context, question string) (string, bool) {
	return p.ask(ctx, question)
}

// Println prints a line of text to the operator.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) ask(ctx context.Context, question string) (string, bool) {
	fmt.Fprint(p.out, question)

	if ctx.Err() == nil {
		p.startRead.Do(func() { go p.readLines() })

		select {
		case line, ok := <-p.lines:
			if ok {
				return strings.TrimSpace(line), true
			}

		case <-ctx.Done():
		}
	}

	fmt.Fprintln(p.out)

	return "", false
}

// readLines hands every input line to ask, and closes the channel once the
// input is exhausted. At most one line is read ahead of the questions.
func (p *Prompter) readLines() {
	defer close(p.lines)

	for {
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		p.lines <- line

		if err != nil {
			return
		}
	}
}

// parseChoice converts a 1-based answer into an index within [0, count).
// Only plain decimal digits are accepted.
func parseChoice(answer string, count int) (int, bool) {
	if answer == "" || strings.TrimLeft(answer, "0123456789") != "" {
		return 0, false
	}

	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > count {
		return 0, false
	}

	return n - 1, true
}

// Label joins the fields of an item into the text shown to the operator.
func Label(item Item) string {
	return strings.Join(item.Fields(), " ")
}

// ConfirmWithRetry produces a list of items, and lets the operator choose one of them.
// On retry, the items are produced again. It returns the key of the chosen item,
// or false if the operator quit.
func ConfirmWithRetry[T Item](ctx context.Context, p *Prompter, produce func() []T, title, message string) (bluetooth.MacAddress, bool) {
	for {
		if message != "" {
			fmt.Fprintf(p.out, "\n%s\n\n", message)
		}

		items := produce()

		labels := make([]string, 0, len(items))
		for _, item := range items {
			labels = append(labels, Label(item))
		}

		outcome := p.Select(ctx, title, labels)
		switch outcome.Kind {
		case Chosen:
			return items[outcome.Index].Key(), true

		case Quit:
			return "", false
		}
	}
}
