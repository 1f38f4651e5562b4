// Package topic holds the study-topic records shown next to the tracers:
// key points, complexity tables, code excerpts and common pitfalls.
package topic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// Kind is the closed set of topic families. Each kind maps to exactly one
// set of tracers and simulators; see Demos.
type Kind string

const (
	KindHeaps   Kind = "heaps"
	KindSorting Kind = "sorting"
	KindBST     Kind = "bst"
	KindGraphs  Kind = "graphs"
	KindGreedy  Kind = "greedy"
	KindHashing Kind = "hashing"
	KindLinear  Kind = "linear"
)

// Kinds lists every topic kind in catalog order.
func Kinds() []Kind {
	return []Kind{KindHeaps, KindSorting, KindBST, KindGraphs, KindGreedy, KindHashing, KindLinear}
}

// ParseKind resolves a topic kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown topic kind %q", domain.ErrInvalidInput, s)
}

// Difficulty grades a topic.
type Difficulty string

const (
	Basic        Difficulty = "basic"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ComplexityRow is one line of a complexity table.
type ComplexityRow struct {
	Operation string `json:"operation" yaml:"operation" mapstructure:"operation" validate:"required"`
	Best      string `json:"best,omitempty" yaml:"best,omitempty" mapstructure:"best"`
	Average   string `json:"average,omitempty" yaml:"average,omitempty" mapstructure:"average"`
	Worst     string `json:"worst" yaml:"worst" mapstructure:"worst" validate:"required"`
	Space     string `json:"space,omitempty" yaml:"space,omitempty" mapstructure:"space"`
}

// CodeExample is a short excerpt shown with a topic.
type CodeExample struct {
	Language string `json:"language" yaml:"language" mapstructure:"language" validate:"required"`
	Code     string `json:"code" yaml:"code" mapstructure:"code" validate:"required"`
}

// Record is a topic content record.
type Record struct {
	ID              string            `json:"id" yaml:"id" mapstructure:"id" validate:"required"`
	Title           string            `json:"title" yaml:"title" mapstructure:"title" validate:"required"`
	Kind            Kind              `json:"kind" yaml:"kind" mapstructure:"kind" validate:"required,topickind"`
	Difficulty      Difficulty        `json:"difficulty" yaml:"difficulty" mapstructure:"difficulty" validate:"required,oneof=basic intermediate advanced"`
	ExamFrequency   int               `json:"exam_frequency" yaml:"exam_frequency" mapstructure:"exam_frequency" validate:"min=0,max=5"`
	KeyPoints       []string          `json:"key_points" yaml:"key_points" mapstructure:"key_points" validate:"min=1,dive,required"`
	Algorithms      []algorithms.Kind `json:"algorithms,omitempty" yaml:"algorithms,omitempty" mapstructure:"algorithms" validate:"dive,algorithm"`
	ComplexityTable []ComplexityRow   `json:"complexity_table,omitempty" yaml:"complexity_table,omitempty" mapstructure:"complexity_table" validate:"dive"`
	CodeExample     *CodeExample      `json:"code_example,omitempty" yaml:"code_example,omitempty" mapstructure:"code_example" validate:"omitempty"`
	CommonPitfalls  []string          `json:"common_pitfalls,omitempty" yaml:"common_pitfalls,omitempty" mapstructure:"common_pitfalls" validate:"dive,required"`
	Notes           string            `json:"notes,omitempty" yaml:"notes,omitempty" mapstructure:"-"`
	Source          string            `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("topickind", func(fl validator.FieldLevel) bool {
		_, err := ParseKind(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		_, err := algorithms.Describe(algorithms.Kind(fl.Field().String()))
		return err == nil
	})
	return v
}

// Validate checks a record and reports the first failing field.
// The error wraps domain.ErrInvalidInput.
func Validate(r Record) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: topic %q: %s failed %q check", domain.ErrInvalidInput, r.ID, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: topic %q: %v", domain.ErrInvalidInput, r.ID, err)
}

// Demos returns the tracers and simulators that illustrate kind.
// The switch is exhaustive over Kind.
func Demos(kind Kind) (tracers []algorithms.Kind, simulators []string) {
	for _, d := range algorithms.Descriptors() {
		if d.Topic == string(kind) {
			tracers = append(tracers, d.Kind)
		}
	}

	switch kind {
	case KindHeaps:
		simulators = []string{"heap"}
	case KindBST:
		simulators = []string{"bst"}
	case KindHashing:
		simulators = []string{"hash"}
	case KindLinear:
		simulators = []string{"stack", "queue"}
	case KindSorting, KindGraphs, KindGreedy:
	}
	return tracers, simulators
}
