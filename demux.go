package main

import (
	"strings"
	"unicode/utf8"
)

// PlanDelimiter separates the model's reasoning from the structured plan.
const PlanDelimiter = "### FITNESS PLAN ###"

type splitState int

const (
	seekingDelimiter splitState = iota
	delimiterFound
)

func (s splitState) String() string {
	if s == delimiterFound {
		return "DELIMITER_FOUND"
	}
	return "SEEKING_DELIMITER"
}

// Demultiplexer tracks one model response as it streams in and decides
// which part of it is reasoning. It is owned by a single stream and is not
// safe for concurrent use.
type Demultiplexer struct {
	full      strings.Builder
	state     splitState
	reasoning string
	sentLen   int
}

func NewDemultiplexer() *Demultiplexer {
	return &Demultiplexer{}
}

// Feed appends a fragment and returns the full reasoning snapshot when it
// grew since the last one returned.
func (d *Demultiplexer) Feed(fragment string) (string, bool) {
	d.full.WriteString(fragment)

	if d.state == seekingDelimiter {
		text := d.full.String()
		if idx := strings.Index(text, PlanDelimiter); idx >= 0 {
			d.state = delimiterFound
			d.reasoning = strings.TrimSpace(text[:idx])
		} else {
			// A trailing partial delimiter is not published until the next
			// fragment shows whether it really starts the plan.
			d.reasoning = strings.TrimSpace(text[:len(text)-partialDelimiterSuffix(text)])
		}
	}

	return d.snapshot(d.reasoning)
}

// Finish splits the complete response on the first delimiter. The returned
// snapshot is set only when the final reasoning is longer than anything
// already handed out by Feed.
func (d *Demultiplexer) Finish() (reasoning, plan, snapshot string, ok bool) {
	reasoning, plan = SplitResponse(d.full.String())
	snapshot, ok = d.snapshot(reasoning)
	return reasoning, plan, snapshot, ok
}

func (d *Demultiplexer) State() splitState {
	return d.state
}

func (d *Demultiplexer) Len() int {
	return d.full.Len()
}

func (d *Demultiplexer) snapshot(reasoning string) (string, bool) {
	n := utf8.RuneCountInString(reasoning)
	if n <= d.sentLen {
		return "", false
	}
	d.sentLen = n
	return reasoning, true
}

// SplitResponse splits a full model response into trimmed reasoning and
// plan. Plan is empty when the delimiter never appears.
func SplitResponse(text string) (reasoning, plan string) {
	before, after, found := strings.Cut(text, PlanDelimiter)
	if !found {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// partialDelimiterSuffix returns the length of the longest suffix of text
// that is a proper prefix of PlanDelimiter.
func partialDelimiterSuffix(text string) int {
	n := len(PlanDelimiter) - 1
	if n > len(text) {
		n = len(text)
	}
	for ; n > 0; n-- {
		if strings.HasSuffix(text, PlanDelimiter[:n]) {
			return n
		}
	}
	return 0
}
