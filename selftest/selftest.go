package selftest

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/abhyasa/study-client/internal/utils"
)

// State of a chapter self-test
type State int

const (
	Answering State = iota
	Locked
	ShowingResults
)

func (s State) String() string {
	switch s {
	case Answering:
		return "answering"
	case Locked:
		return "locked"
	case ShowingResults:
		return "results"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PaidFlag is the durable purchase flag; sessions.Manager satisfies it.
type PaidFlag interface {
	Paid(ctx context.Context) (bool, error)
	SetPaid(ctx context.Context, paid bool) error
}

type Question struct {
	ID       string
	Question string
	Options  []string
	Answer   int // index of the correct option
	Reason   string
}

// Result is the review line for one question once the test is finished.
type Result struct {
	Question Question
	Selected *int // nil when unanswered
	Correct  bool
}

// Test is the self-test of one chapter view. The first question is free;
// moving past it requires the paid flag.
type Test struct {
	mu          sync.Mutex
	questions   []Question
	paid        PaidFlag
	current     int
	answers     []*int
	locked      bool
	showResults bool
}

// New starts a test on the first question. paid decides whether questions
// after the first are unlocked.
func New(questions []Question, paid PaidFlag) *Test {
	return &Test{
		questions: questions,
		paid:      paid,
		answers:   make([]*int, len(questions)),
	}
}

// FromChapter builds the test over the chapter's content in order.
func FromChapter(ch api.Chapter, paid PaidFlag) *Test {
	questions := make([]Question, 0, len(ch.Content))
	for _, q := range ch.Content {
		questions = append(questions, Question{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
			Reason:   q.Reason,
		})
	}
	return New(questions, paid)
}

// State returns the current state and question index.
func (t *Test) State() (State, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state(), t.current
}

func (t *Test) state() State {
	switch {
	case t.showResults:
		return ShowingResults
	case t.locked:
		return Locked
	}
	return Answering
}

// Len returns the number of questions in the test.
func (t *Test) Len() int {
	return len(t.questions)
}

// Current returns the question being answered and the recorded selection.
func (t *Test) Current() (Question, *int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.questions) == 0 {
		return Question{}, nil, apperrors.ErrNoQuestions
	}
	return t.questions[t.current], t.answers[t.current], nil
}

// IsLast reports whether the current question is the final one
func (t *Test) IsLast() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current == len(t.questions)-1
}

// Select records option as the answer to the current question. Answers may
// be changed freely while answering.
func (t *Test) Select(option int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAnswering(); err != nil {
		return err
	}
	q := t.questions[t.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d of %d", apperrors.ErrInvalidOption, option, len(q.Options))
	}
	t.answers[t.current] = utils.Ptr(option)
	return nil
}

// Next moves forward. From the first question without the paid flag the test
// locks. From the last question it finishes.
func (t *Test) Next(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAnswering(); err != nil {
		return t.state(), err
	}

	if t.current == 0 {
		paid, err := t.paid.Paid(ctx)
		if err != nil {
			return t.state(), err
		}
		if !paid {
			t.locked = true
			return Locked, nil
		}
	}

	if t.current+1 < len(t.questions) {
		t.current++
		return Answering, nil
	}
	t.showResults = true
	return ShowingResults, nil
}

// Finish ends the test from the last question.
func (t *Test) Finish(ctx context.Context) (State, error) {
	if !t.IsLast() {
		s, _ := t.State()
		return s, fmt.Errorf("%w: finish before the last question", apperrors.ErrInvalidState)
	}
	return t.Next(ctx)
}

// Previous goes back one question.
func (t *Test) Previous() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAnswering(); err != nil {
		return err
	}
	if t.current == 0 {
		return fmt.Errorf("%w: already at the first question", apperrors.ErrInvalidState)
	}
	t.current--
	return nil
}

// Purchase completes the simulated payment: the paid flag is stored and the
// test unlocks at the second question.
func (t *Test) Purchase(ctx context.Context) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state() != Locked {
		return t.state(), fmt.Errorf("%w: nothing to unlock", apperrors.ErrInvalidState)
	}
	if err := t.paid.SetPaid(ctx, true); err != nil {
		return t.state(), err
	}
	t.locked = false
	if len(t.questions) > 1 {
		t.current = 1
		return Answering, nil
	}
	t.showResults = true
	return ShowingResults, nil
}

// Retake starts over from the first question with no answers.
func (t *Test) Retake() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state() != ShowingResults {
		return fmt.Errorf("%w: retake before results", apperrors.ErrInvalidState)
	}
	t.showResults = false
	t.current = 0
	t.answers = make([]*int, len(t.questions))
	return nil
}

// Score counts answers matching the correct option. Unanswered questions
// never match.
func (t *Test) Score() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Score(t.questions, t.answers)
}

// Results returns the per question review.
func (t *Test) Results() []Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := make([]Result, len(t.questions))
	for i, q := range t.questions {
		results[i] = Result{
			Question: q,
			Selected: t.answers[i],
			Correct:  t.answers[i] != nil && *t.answers[i] == q.Answer,
		}
	}
	return results
}

// Score counts positions where answers holds the question's correct option.
func Score(questions []Question, answers []*int) int {
	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == q.Answer {
			score++
		}
	}
	return score
}

func (t *Test) requireAnswering() error {
	if len(t.questions) == 0 {
		return apperrors.ErrNoQuestions
	}
	switch t.state() {
	case Locked:
		return apperrors.ErrLocked
	case ShowingResults:
		return fmt.Errorf("%w: test finished", apperrors.ErrInvalidState)
	}
	return nil
}
