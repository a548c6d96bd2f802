// SPDX-License-Identifier: EPL-2.0

package classify

import "fmt"

type Kind int

const (
	KindEmotion Kind = iota
	KindRejected
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindEmotion:
		return "emotion"
	case KindRejected:
		return "rejected"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Reason string

const (
	ReasonNotFemale  Reason = "not a female voice"
	ReasonNotEnglish Reason = "not English"
)

type Stage string

const (
	StageConversion Stage = "conversion"
	StageExtraction Stage = "extraction"
	StageInference  Stage = "inference"
)

// Result is the outcome of one prediction. Exactly one of Label, Reason
// or Stage is meaningful, selected by Kind.
type Result struct {
	Kind   Kind
	Label  string
	Reason Reason
	Stage  Stage

	// Err keeps the underlying failure for logs. It never reaches Message.
	Err error
}

func Emotion(label string) Result {
	return Result{Kind: KindEmotion, Label: label}
}

func Rejected(reason Reason) Result {
	return Result{Kind: KindRejected, Reason: reason}
}

func Failed(stage Stage, err error) Result {
	return Result{Kind: KindFailed, Stage: stage, Err: err}
}

// Message renders the result as the user-facing string.
func (r Result) Message() string {
	switch r.Kind {
	case KindEmotion:
		return "Predicted emotion: " + r.Label
	case KindRejected:
		if r.Reason == ReasonNotEnglish {
			return "Please upload an English voice note"
		}
		return "Please upload a female voice"
	default:
		switch r.Stage {
		case StageConversion:
			return "File conversion failed"
		case StageExtraction:
			return "Feature extraction failed"
		default:
			return "Prediction failed"
		}
	}
}

func (r Result) String() string { return r.Message() }
