// Package funcs registers function sources under opaque ids and executes
// them, either from the shared cache or from inline source.
package funcs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flarebyte/ngc-helper/internal/ctxlog"
	"github.com/flarebyte/ngc-helper/internal/engine"
	"github.com/flarebyte/ngc-helper/internal/policy"
)

// Registry ties an engine, an optional policy and the cache together.
type Registry struct {
	engine engine.Engine
	policy policy.Policy
	cache  Cache

	now    func() time.Time
	suffix func() string
}

// NewRegistry returns a registry. pol may be nil when no host security
// policy is available.
func NewRegistry(eng engine.Engine, pol policy.Policy, cache Cache) *Registry {
	return &Registry{
		engine: eng,
		policy: pol,
		cache:  cache,
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// Register wraps the body into a function source, stores it under a fresh id
// and returns both.
func (r *Registry) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	logger := ctxlog.FromContext(ctx)
	if req.Body == "" {
		return RegisterResponse{}, invalidInput("function body is required")
	}
	source := r.engine.Wrap(req.Args, req.Body)

	var artifact *string
	if r.policy != nil {
		script, err := r.policy.CreateScript(source)
		if err != nil {
			logger.Debug("policy rejected source, registering untrusted", "policy", r.policy.Name(), "error", err)
		} else {
			s := script.String()
			artifact = &s
		}
	}

	id := newFunctionID(artifact != nil, r.now(), r.suffix())
	records := r.cache.Load(ctx)
	records[id] = Record{Source: source, SandboxedArtifact: artifact, Engine: r.engine.Name()}
	if err := r.cache.Save(ctx, records); err != nil {
		return RegisterResponse{}, err
	}
	logger.Debug("function registered", "functionId", id, "trusted", artifact != nil)
	return RegisterResponse{FunctionID: id, Source: source}, nil
}

// Execute resolves the function to run and calls it with req.Args.
func (r *Registry) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResponse, error) {
	rec, err := r.resolve(ctx, req)
	if err != nil {
		return ExecuteResponse{}, err
	}
	fn, err := r.compile(ctx, rec)
	if err != nil {
		return ExecuteResponse{}, evaluationFailure(err)
	}
	args := req.Args
	if args == nil {
		args = []any{}
	}
	result, err := fn.Call(ctx, args)
	if err != nil {
		return ExecuteResponse{}, evaluationFailure(err)
	}
	return ExecuteResponse{Result: result}, nil
}

func (r *Registry) resolve(ctx context.Context, req ExecuteRequest) (Record, error) {
	if req.FunctionID == "" {
		if req.Source == "" {
			return Record{}, invalidInput("Either functionId or source must be provided")
		}
		return Record{Source: req.Source}, nil
	}
	rec, ok := r.cache.Load(ctx)[req.FunctionID]
	if !ok {
		if req.Source == "" {
			return Record{}, &Error{
				Kind:    NotFound,
				Message: fmt.Sprintf("Function %s not found in cache and no source provided", req.FunctionID),
			}
		}
		ctxlog.FromContext(ctx).Debug("function not cached, using inline source", "functionId", req.FunctionID)
		return Record{Source: req.Source}, nil
	}
	if rec.Engine != "" && rec.Engine != r.engine.Name() {
		return Record{}, invalidInput(fmt.Sprintf("Function %s was registered for engine %s, not %s",
			req.FunctionID, rec.Engine, r.engine.Name()))
	}
	return rec, nil
}

// compile prefers the policy-recreated artifact and falls back to the raw
// source on any failure along that path.
func (r *Registry) compile(ctx context.Context, rec Record) (engine.Function, error) {
	if rec.SandboxedArtifact != nil && r.policy != nil {
		script, err := r.policy.CreateScript(*rec.SandboxedArtifact)
		if err == nil {
			fn, cerr := r.engine.Compile(script.String())
			if cerr == nil {
				return fn, nil
			}
			err = cerr
		}
		ctxlog.FromContext(ctx).Debug("artifact unusable, compiling raw source", "error", err)
	}
	return r.engine.Compile(rec.Source)
}

func evaluationFailure(err error) *Error {
	var ex *engine.Exception
	if errors.As(err, &ex) {
		return &Error{Kind: EvaluationFailure, Message: ex.Message, Stack: ex.Stack}
	}
	return &Error{Kind: EvaluationFailure, Message: err.Error()}
}
