// Package engine evaluates mesh recipes written in zygomys Lisp. A recipe
// loads boundaries and drives a mesh.Pipeline through its stages; each
// evaluation runs in a fresh sandbox and builds its own pipeline.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/mesh"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// EvalError represents a non-fatal error in recipe source, such as a parse
// error or a builtin rejecting its arguments.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates recipes against one kernel. It is safe for concurrent
// use; each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	k    kernel.Kernel
	opts []mesh.Option

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an engine whose pipelines run k. opts are applied to
// every pipeline before any options the recipe sets itself.
func NewEngine(k kernel.Kernel, opts ...mesh.Option) *Engine {
	return &Engine{k: k, opts: opts}
}

// Evaluate runs recipe source and returns the pipeline it built.
//
// Return semantics:
//   - On success: returns pipeline + nil errors + nil error
//   - On parse/eval failure: returns nil pipeline + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*mesh.Pipeline, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{pipeline: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*mesh.Pipeline, []EvalError, error) {
	r := &recipe{k: e.k, base: e.opts}

	// Empty source is a valid recipe that leaves the pipeline empty.
	if strings.TrimSpace(source) == "" {
		return r.pipeline(), nil, nil
	}

	// Sandbox mode keeps recipes away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, r)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return r.pipeline(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// pulling out a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
