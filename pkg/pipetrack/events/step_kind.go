package events

import "fmt"

// StepKind classifies how a step is executed.
type StepKind string

// Step kinds produced by the execution plan builder.
const (
	StepKindTransform            StepKind = "TRANSFORM"
	StepKindInputExpectation     StepKind = "INPUT_EXPECTATION"
	StepKindOutputExpectation    StepKind = "OUTPUT_EXPECTATION"
	StepKindJoin                 StepKind = "JOIN"
	StepKindSerialize            StepKind = "SERIALIZE"
	StepKindInputThunk           StepKind = "INPUT_THUNK"
	StepKindMaterializationThunk StepKind = "MATERIALIZATION_THUNK"
	StepKindValueThunk           StepKind = "VALUE_THUNK"
	StepKindUnmarshalInput       StepKind = "UNMARSHAL_INPUT"
	StepKindMarshalOutput        StepKind = "MARSHAL_OUTPUT"
)

var stepKinds = map[StepKind]struct{}{
	StepKindTransform:            {},
	StepKindInputExpectation:     {},
	StepKindOutputExpectation:    {},
	StepKindJoin:                 {},
	StepKindSerialize:            {},
	StepKindInputThunk:           {},
	StepKindMaterializationThunk: {},
	StepKindValueThunk:           {},
	StepKindUnmarshalInput:       {},
	StepKindMarshalOutput:        {},
}

// Valid reports whether k is a known step kind.
func (k StepKind) Valid() bool {
	_, ok := stepKinds[k]
	return ok
}

// String returns the wire value of the step kind.
func (k StepKind) String() string {
	return string(k)
}

// ParseStepKind converts a wire value into a StepKind.
func ParseStepKind(s string) (StepKind, error) {
	k := StepKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown step kind %q", s)
	}
	return k, nil
}
