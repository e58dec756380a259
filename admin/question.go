package admin

import (
	"fmt"
	"strings"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/abhyasa/study-client/internal/utils"
)

const mcqType = "mcq"

// QuestionDraft is a question being authored. Without MCQ it is a plain
// in-text question and Options and Answer are ignored.
type QuestionDraft struct {
	Question            string
	Reason              string
	MCQ                 bool
	Options             []string
	Answer              int
	ExplanationVideoURL string
}

// ParseOptions splits a comma separated option list, dropping blanks.
func ParseOptions(s string) []string {
	var options []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

// Input validates the draft and builds the request body.
func (d QuestionDraft) Input() (api.QuestionInput, error) {
	if strings.TrimSpace(d.Question) == "" {
		return api.QuestionInput{}, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}

	in := api.QuestionInput{
		Question:            d.Question,
		Reason:              d.Reason,
		ExplanationVideoURL: d.ExplanationVideoURL,
	}
	if !d.MCQ {
		return in, nil
	}

	if len(d.Options) < 2 {
		return api.QuestionInput{}, fmt.Errorf("%w: a multiple choice question needs at least 2 options", apperrors.ErrValidation)
	}
	for i, o := range d.Options {
		if strings.TrimSpace(o) == "" {
			return api.QuestionInput{}, fmt.Errorf("%w: option %d is blank", apperrors.ErrValidation, i+1)
		}
	}
	if d.Answer < 0 || d.Answer >= len(d.Options) {
		return api.QuestionInput{}, fmt.Errorf("%w: answer %d is not one of %d options", apperrors.ErrValidation, d.Answer, len(d.Options))
	}

	in.Type = mcqType
	in.Options = d.Options
	in.Answer = utils.Ptr(d.Answer)
	return in, nil
}
