package player

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

type promptValidator func(string) (bool, string)

type promptConfig struct {
	maxTries  int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(n int) promptOption {
	return func(cfg *promptConfig) {
		cfg.maxTries = n
	}
}

// Prompt asks one question and reads one line, re-asking until the answer
// passes the validator or the try budget runs out. The answer is returned
// with surrounding whitespace trimmed.
func Prompt(rw io.ReadWriter, question string, opts ...promptOption) (string, error) {
	cfg := &promptConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := bufio.NewReader(rw)
	tries := 0
	for {
		if _, err := rw.Write([]byte(question)); err != nil {
			return "", err
		}

		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		answer := strings.TrimSpace(line)

		if cfg.validator == nil {
			return answer, nil
		}
		ok, msg := cfg.validator(answer)
		if ok {
			return answer, nil
		}

		if _, err := rw.Write([]byte(msg)); err != nil {
			return "", err
		}
		tries++
		if cfg.maxTries > 0 && tries >= cfg.maxTries {
			return "", fmt.Errorf("too many tries")
		}
	}
}

// PromptYN asks a yes/no question.
func PromptYN(rw io.ReadWriter, question string) (bool, error) {
	answer, err := Prompt(rw, question, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			}
			return false, "Answer yes or no.\n"
		},
	))
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

type Selectable interface {
	Selector() string
}

// selector presents a numbered pick list. Options are ordered by id so the
// list is stable run to run, map iteration order notwithstanding.
type selector[T Selectable] struct {
	ids    []string
	labels []string
}

func NewSelector[T Selectable](opts map[string]T) *selector[T] {
	ids := make([]string, 0, len(opts))
	for id := range opts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := &selector[T]{ids: ids}
	for _, id := range ids {
		s.labels = append(s.labels, opts[id].Selector())
	}
	return s
}

// Prompt shows the list under a title and returns the chosen option's id.
func (s *selector[T]) Prompt(rw io.ReadWriter, title string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	for i, label := range s.labels {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, label)
	}
	if _, err := rw.Write([]byte(b.String())); err != nil {
		return "", err
	}

	choice, err := Prompt(rw, "Make your selection: ", WithValidator(
		func(str string) (bool, string) {
			n, err := strconv.Atoi(str)
			if err != nil || n < 1 || n > len(s.ids) {
				return false, "Pick a number from the list.\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(choice)
	if err != nil {
		return "", err
	}
	return s.ids[n-1], nil
}
