package suppress

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// Build evaluates a Risor rule script from fsys and returns the resulting
// registry. The script sees the environment as the globals "engine" and
// "version" plus these builtins:
//
//	known_failure(pattern...)  register permanent suppressions
//	todo_failure(pattern...)   register temporary suppressions
//	version_lt(v)              current version < v
//	version_lte(v)             current version <= v
//	version_eq(v)              current version == v
//
// The registry is sealed once the script returns; rules are a set, so the
// order of registration calls does not matter.
func Build(ctx context.Context, fsys fs.FS, path string, env Env) (*Registry, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("suppress: read rules %s: %w", path, err)
	}

	reg := NewRegistry()
	opts := []risor.Option{
		risor.WithGlobal("engine", env.Engine),
		risor.WithGlobal("version", env.Version.String()),
		risor.WithGlobal("known_failure", addRuleFn("known_failure", reg, KnownFailure)),
		risor.WithGlobal("todo_failure", addRuleFn("todo_failure", reg, TodoFailure)),
		risor.WithGlobal("version_lt", compareFn("version_lt", env, func(c int) bool { return c < 0 })),
		risor.WithGlobal("version_lte", compareFn("version_lte", env, func(c int) bool { return c <= 0 })),
		risor.WithGlobal("version_eq", compareFn("version_eq", env, func(c int) bool { return c == 0 })),
	}
	if _, err := risor.Eval(ctx, string(src), opts...); err != nil {
		return nil, fmt.Errorf("suppress: rules %s: %w", path, err)
	}
	return reg, nil
}

// addRuleFn builds the host function registering rules of one category.
func addRuleFn(name string, reg *Registry, cat Category) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) == 0 {
			return object.Errorf("%s: at least one pattern required", name)
		}
		for _, a := range args {
			s, ok := a.(*object.String)
			if !ok {
				return object.Errorf("%s: pattern must be a string, got %s", name, a.Type())
			}
			reg.Add(Rule{Pattern: s.Value(), Category: cat})
		}
		return object.Nil
	})
}

// compareFn builds a host function comparing the environment version
// against a version literal from the script.
func compareFn(name string, env Env, ok func(int) bool) *object.Builtin {
	return object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError(name, 1, len(args))
		}
		s, okStr := args[0].(*object.String)
		if !okStr {
			return object.Errorf("%s: version must be a string, got %s", name, args[0].Type())
		}
		v, err := ParseVersion(s.Value())
		if err != nil {
			return object.Errorf("%s: %v", name, err)
		}
		return object.NewBool(ok(env.Version.Compare(v)))
	})
}
