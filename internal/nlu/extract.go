package nlu

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMissingParameters = errors.New("missing parameters")
	ErrUnknownIntent     = errors.New("unknown intent")
)

// Params is the set of values pulled out of a command. The concrete type
// always matches the intent it was extracted for.
type Params interface {
	Intent() Intent
}

type LoopParams struct {
	Start int
	End   int
}

type VariableParams struct {
	Name  string
	Value string
}

type FunctionParams struct {
	Name string
}

type ConditionalParams struct {
	Var1 string
	Var2 string
}

type MessageParams struct {
	Text string
}

type TerminateParams struct{}

func (LoopParams) Intent() Intent        { return IntentLoop }
func (VariableParams) Intent() Intent    { return IntentVariable }
func (FunctionParams) Intent() Intent    { return IntentFunction }
func (ConditionalParams) Intent() Intent { return IntentConditional }
func (MessageParams) Intent() Intent     { return IntentMessage }
func (TerminateParams) Intent() Intent   { return IntentTerminate }

var digitsRe = regexp.MustCompile(`[0-9]+`)

// Extract pulls the parameters for intent out of normalized text.
// Failures wrap ErrMissingParameters or ErrUnknownIntent.
func Extract(normalized string, intent Intent) (Params, error) {
	words := strings.Fields(normalized)

	switch intent {
	case IntentLoop:
		return extractLoop(normalized)

	case IntentVariable:
		name, ok := after(words, "variable", 1)
		if !ok {
			return nil, missing("no name after %q", "variable")
		}
		i := index(words, "igual")
		if i < 0 || i+1 >= len(words) {
			return nil, missing("no value after %q", "igual")
		}
		value := words[i+1]
		// "igual a 10": the spoken "a" normalizes to the connective "al"
		if value == "al" && i+2 < len(words) {
			value = words[i+2]
		}
		return VariableParams{Name: name, Value: value}, nil

	case IntentFunction:
		name, ok := after(words, "llamada", 1)
		if !ok {
			return nil, missing("no name after %q", "llamada")
		}
		return FunctionParams{Name: name}, nil

	case IntentConditional:
		v1, ok := after(words, "si", 1)
		if !ok {
			return nil, missing("no operand after %q", "si")
		}
		v2, ok := after(words, "mayor", 2)
		if !ok {
			return nil, missing("no operand after %q", "mayor que")
		}
		return ConditionalParams{Var1: v1, Var2: v2}, nil

	case IntentMessage:
		_, rest, found := strings.Cut(normalized, "mensaje")
		if !found {
			return nil, missing("no %q marker", "mensaje")
		}
		text := strings.TrimSpace(rest)
		if text == "" {
			return nil, missing("empty message")
		}
		return MessageParams{Text: text}, nil

	case IntentTerminate:
		return TerminateParams{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
}

func extractLoop(normalized string) (Params, error) {
	nums := digitsRe.FindAllString(normalized, 2)
	if len(nums) < 2 {
		return nil, missing("loop needs two numbers, found %d", len(nums))
	}

	start, err := strconv.Atoi(nums[0])
	if err != nil {
		return nil, missing("bad loop start %q", nums[0])
	}
	end, err := strconv.Atoi(nums[1])
	if err != nil {
		return nil, missing("bad loop end %q", nums[1])
	}

	return LoopParams{Start: start, End: end}, nil
}

// after returns the word offset positions past the first occurrence of marker.
func after(words []string, marker string, offset int) (string, bool) {
	i := index(words, marker)
	if i < 0 || i+offset >= len(words) {
		return "", false
	}
	return words[i+offset], true
}

func index(words []string, w string) int {
	for i, x := range words {
		if x == w {
			return i
		}
	}
	return -1
}

func missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingParameters, fmt.Sprintf(format, args...))
}
