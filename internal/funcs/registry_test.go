package funcs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/flarebyte/ngc-helper/internal/config"
	"github.com/flarebyte/ngc-helper/internal/engine"
	"github.com/flarebyte/ngc-helper/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, pol policy.Policy) (*Registry, Cache) {
	t.Helper()
	cache := Cache{Path: filepath.Join(t.TempDir(), "cache", "functions.json")}
	return NewRegistry(engine.NewJS(), pol, cache), cache
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var fe *Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, kind, fe.Kind, fe.Message)
	return fe
}

func TestRegisterThenExecute(t *testing.T) {
	ctx := context.Background()
	reg, cache := newTestRegistry(t, nil)

	out, err := reg.Register(ctx, RegisterRequest{Args: []string{"x"}, Body: "return x * 2;"})
	require.NoError(t, err)
	assert.Equal(t, "(function anonymous(x) { return x * 2; })", out.Source)
	assert.Regexp(t, `^fn_\d+_[0-9a-f]{9}$`, out.FunctionID)

	rec, ok := cache.Load(ctx)[out.FunctionID]
	require.True(t, ok)
	assert.Equal(t, out.Source, rec.Source)
	assert.Nil(t, rec.SandboxedArtifact)
	assert.Equal(t, "js", rec.Engine)

	// A second registry stands in for a later process.
	again := NewRegistry(engine.NewJS(), nil, cache)
	res, err := again.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID, Args: []any{float64(21)}})
	require.NoError(t, err)
	assert.EqualValues(t, 42, res.Result)
}

func TestRegister_RequiresBody(t *testing.T) {
	reg, cache := newTestRegistry(t, nil)
	_, err := reg.Register(context.Background(), RegisterRequest{Args: []string{"x"}})
	fe := requireKind(t, err, InvalidInput)
	assert.Equal(t, "function body is required", fe.Message)
	_, statErr := os.Stat(cache.Path)
	assert.True(t, os.IsNotExist(statErr), "nothing may be written")
}

func TestRegister_MalformedBodyStillRegisters(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t, nil)
	out, err := reg.Register(ctx, RegisterRequest{Body: "return (;"})
	require.NoError(t, err)
	_, err = reg.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID})
	fe := requireKind(t, err, EvaluationFailure)
	assert.NotEmpty(t, fe.Message)
}

func TestRegister_DistinctIDs(t *testing.T) {
	ctx := context.Background()
	reg, cache := newTestRegistry(t, nil)
	fixed := time.UnixMilli(1700000000000)
	reg.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		out, err := reg.Register(ctx, RegisterRequest{Body: "return 1;"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.FunctionID, "fn_1700000000000_"))
		assert.False(t, seen[out.FunctionID])
		seen[out.FunctionID] = true
	}
	assert.Len(t, cache.Load(ctx), 5)
}

func TestRegister_TrustedWhenPolicyAccepts(t *testing.T) {
	ctx := context.Background()
	reg, cache := newTestRegistry(t, policy.New(&config.Policy{}))
	reg.now = func() time.Time { return time.UnixMilli(42) }
	reg.suffix = func() string { return "abcdefghi" }

	out, err := reg.Register(ctx, RegisterRequest{Args: []string{"a", "b"}, Body: "return a + b;"})
	require.NoError(t, err)
	assert.Equal(t, "trusted_42_abcdefghi", out.FunctionID)

	rec := cache.Load(ctx)[out.FunctionID]
	require.NotNil(t, rec.SandboxedArtifact)
	assert.Equal(t, out.Source, *rec.SandboxedArtifact)

	res, err := reg.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID, Args: []any{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, "xy", res.Result)
}

func TestRegister_PolicyRejectionFallsBack(t *testing.T) {
	ctx := context.Background()
	reg, cache := newTestRegistry(t, policy.New(&config.Policy{Deny: []string{"eval"}}))

	out, err := reg.Register(ctx, RegisterRequest{Body: "return eval('1 + 1');"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.FunctionID, "fn_"))
	assert.Nil(t, cache.Load(ctx)[out.FunctionID].SandboxedArtifact)

	res, err := reg.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Result)
}

func TestExecute_ArtifactWithoutPolicyUsesSource(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Path: filepath.Join(t.TempDir(), "functions.json")}
	broken := "not a function ("
	require.NoError(t, cache.Save(ctx, map[string]Record{
		"trusted_1_aaaaaaaaa": {Source: "(function anonymous() { return 'raw'; })", SandboxedArtifact: &broken},
	}))

	res, err := NewRegistry(engine.NewJS(), nil, cache).Execute(ctx, ExecuteRequest{FunctionID: "trusted_1_aaaaaaaaa"})
	require.NoError(t, err)
	assert.Equal(t, "raw", res.Result)

	// With a policy, an artifact that no longer compiles falls back too.
	res, err = NewRegistry(engine.NewJS(), policy.New(&config.Policy{}), cache).Execute(ctx, ExecuteRequest{FunctionID: "trusted_1_aaaaaaaaa"})
	require.NoError(t, err)
	assert.Equal(t, "raw", res.Result)
}

func TestExecute_Resolution(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t, nil)

	_, err := reg.Execute(ctx, ExecuteRequest{FunctionID: "fn_0_missing"})
	fe := requireKind(t, err, NotFound)
	assert.Equal(t, "Function fn_0_missing not found in cache and no source provided", fe.Message)

	_, err = reg.Execute(ctx, ExecuteRequest{})
	fe = requireKind(t, err, InvalidInput)
	assert.Equal(t, "Either functionId or source must be provided", fe.Message)

	res, err := reg.Execute(ctx, ExecuteRequest{FunctionID: "fn_0_missing", Source: "(function(){ return 1 })"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Result)

	res, err = reg.Execute(ctx, ExecuteRequest{Source: "(function(a, b){ return [a, b] })", Args: []any{"p", true}})
	require.NoError(t, err)
	assert.Equal(t, []any{"p", true}, res.Result)
}

func TestExecute_UndefinedIsNull(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	res, err := reg.Execute(context.Background(), ExecuteRequest{Source: "(function(){ })"})
	require.NoError(t, err)
	assert.Nil(t, res.Result)
}

func TestExecute_ThrowReportsStack(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	_, err := reg.Execute(context.Background(), ExecuteRequest{Source: "(function(){ throw new Error('nope') })"})
	fe := requireKind(t, err, EvaluationFailure)
	assert.Equal(t, "nope", fe.Message)
	assert.NotEmpty(t, fe.Stack)
	assert.Equal(t, 1, fe.ExitCode())
}

func TestExecute_GlobalReceiver(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	res, err := reg.Execute(context.Background(), ExecuteRequest{Source: "(function(){ return this === globalThis })"})
	require.NoError(t, err)
	assert.Equal(t, true, res.Result)
}

func TestExecute_EngineMismatch(t *testing.T) {
	ctx := context.Background()
	reg, cache := newTestRegistry(t, nil)
	out, err := reg.Register(ctx, RegisterRequest{Body: "return 1;"})
	require.NoError(t, err)

	lua := NewRegistry(engine.NewLua(config.Default().Runtime.Lua), nil, cache)
	_, err = lua.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID})
	requireKind(t, err, InvalidInput)
}

func TestLuaEngine_RegisterThenExecute(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Path: filepath.Join(t.TempDir(), "functions.json")}
	eng := engine.NewLua(config.Default().Runtime.Lua)
	defer eng.Close()
	reg := NewRegistry(eng, nil, cache)

	out, err := reg.Register(ctx, RegisterRequest{Args: []string{"x"}, Body: "return x * 2"})
	require.NoError(t, err)
	assert.Equal(t, "return function(x) return x * 2 end", out.Source)

	res, err := reg.Execute(ctx, ExecuteRequest{FunctionID: out.FunctionID, Args: []any{float64(21)}})
	require.NoError(t, err)
	assert.Equal(t, float64(42), res.Result)
}

func TestExecute_NonFiniteAndFunctionResultsAreNull(t *testing.T) {
	reg, _ := newTestRegistry(t, nil)
	for _, src := range []string{
		"(function(){ return 0/0; })",
		"(function(x){ return x * 2; })",
		"(function(){ return -1/0; })",
		"(function(){ return function(){}; })",
	} {
		res, err := reg.Execute(context.Background(), ExecuteRequest{Source: src})
		require.NoError(t, err, src)
		assert.Nil(t, res.Result, src)
	}

	res, err := reg.Execute(context.Background(), ExecuteRequest{Source: "(function(){ return new Date(0); })"})
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00.000Z", res.Result)
}

func TestRegister_ConcurrentCallsGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	cache := Cache{Path: filepath.Join(t.TempDir(), "functions.json")}
	const n = 8

	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := NewRegistry(engine.NewJS(), nil, cache).Register(ctx, RegisterRequest{Body: "return 1;"})
			ids[i], errs[i] = out.FunctionID, err
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true
	}

	// Last writer wins: entries may be lost, but the document stays whole.
	b, err := os.ReadFile(cache.Path)
	require.NoError(t, err)
	var doc map[string]Record
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NotEmpty(t, doc)
	for id := range doc {
		assert.True(t, seen[id], "unexpected id %s", id)
	}

	// Every issued id is still usable once its source is supplied.
	for _, id := range ids {
		res, err := NewRegistry(engine.NewJS(), nil, cache).Execute(ctx, ExecuteRequest{FunctionID: id, Source: "(function(){ return 1; })"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.Result)
	}
}
