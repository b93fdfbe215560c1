package engine

import (
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	case map[string]any:
		tbl := L.NewTable()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			tbl.RawSetString(k, toLValue(L, x[k]))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for i, v2 := range x {
			tbl.RawSetInt(i+1, toLValue(L, v2))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// fromLValue converts a Lua value to plain Go data. Tables with keys 1..n
// become slices; any other table becomes a map keyed by the key's string form.
// Non-finite numbers and functions become nil, matching JSON output.
func fromLValue(v lua.LValue) any {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return lua.LVAsBool(v)
	case lua.LTNumber:
		f := float64(v.(lua.LNumber))
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case lua.LTString:
		return v.String()
	case lua.LTTable:
		t := v.(*lua.LTable)
		n := t.Len()
		isArray := n > 0
		count := 0
		t.ForEach(func(k, _ lua.LValue) {
			count++
			if lk, ok := k.(lua.LNumber); !ok || float64(lk) != float64(int(lk)) || int(lk) < 1 || int(lk) > n {
				isArray = false
			}
		})
		if isArray && count == n {
			arr := make([]any, n)
			for i := 1; i <= n; i++ {
				arr[i-1] = fromLValue(t.RawGetInt(i))
			}
			return arr
		}
		obj := map[string]any{}
		t.ForEach(func(k, val lua.LValue) {
			obj[k.String()] = fromLValue(val)
		})
		return obj
	default:
		return nil
	}
}
