package banyan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ruby-syntax-tree/banyan/ast"
)

// ReferenceParser produces the reference-schema tree for a source snippet.
// A nil tree with a nil error is a valid answer for an empty program.
type ReferenceParser interface {
	ParseReference(ctx context.Context, src []byte) (*ast.Node, error)
}

// ErrRejected is returned (wrapped) when the reference parser refuses the
// source. The harness treats this as a skip, not a failure, since corpus
// snippets may target language versions the reference does not support.
var ErrRejected = errors.New("banyan: reference parser rejected source")

// oracleReply is the wire document both oracle implementations read:
// exactly one of AST or Reject is meaningful.
type oracleReply struct {
	AST    json.RawMessage `json:"ast"`
	Reject string          `json:"reject,omitempty"`
}

func (r *oracleReply) tree() (*ast.Node, error) {
	if r.Reject != "" {
		return nil, fmt.Errorf("%w: %s", ErrRejected, r.Reject)
	}
	if len(r.AST) == 0 || bytes.Equal(r.AST, []byte("null")) {
		return nil, nil
	}
	var n ast.Node
	if err := json.Unmarshal(r.AST, &n); err != nil {
		return nil, fmt.Errorf("banyan: decode reference tree: %w", err)
	}
	return &n, nil
}

// ExecOracle shells out to a Ruby bridge script that parses the snippet
// with the reference parser gem and prints the tree as JSON on stdout.
// Syntax errors are reported in-band and become ErrRejected.
type ExecOracle struct {
	// Ruby is the interpreter binary, "ruby" when empty.
	Ruby string
	// Script is the bridge script path, e.g. "tools/parse.rb".
	Script string
	// Version pins the parser gem's language version, e.g. "3.1"; empty
	// uses the gem's default.
	Version string
}

func (o *ExecOracle) ParseReference(ctx context.Context, src []byte) (*ast.Node, error) {
	ruby := o.Ruby
	if ruby == "" {
		ruby = "ruby"
	}
	args := []string{o.Script}
	if o.Version != "" {
		args = append(args, "--version", o.Version)
	}

	cmd := exec.CommandContext(ctx, ruby, args...)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("banyan: reference bridge %s: %w: %s", o.Script, err, strings.TrimSpace(stderr.String()))
	}

	var reply oracleReply
	if err := json.Unmarshal(stdout.Bytes(), &reply); err != nil {
		return nil, fmt.Errorf("banyan: reference bridge %s: bad output: %w", o.Script, err)
	}
	return reply.tree()
}

// FixtureOracle answers from recorded reference trees instead of a live
// parser, keyed by exact source text. Fixture documents are JSON files of
// the form {"source": "...", "ast": <tree>} or {"source": "...",
// "reject": "reason"}.
type FixtureOracle struct {
	replies map[string]oracleReply
}

// NewFixtureOracle loads every .json fixture under fsys.
func NewFixtureOracle(fsys fs.FS) (*FixtureOracle, error) {
	o := &FixtureOracle{replies: make(map[string]oracleReply)}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		var docs []fixtureDoc
		if err := json.Unmarshal(data, &docs); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, doc := range docs {
			o.replies[doc.Source] = oracleReply{AST: doc.AST, Reject: doc.Reject}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("banyan: load fixtures: %w", err)
	}
	return o, nil
}

type fixtureDoc struct {
	Source string          `json:"source"`
	AST    json.RawMessage `json:"ast"`
	Reject string          `json:"reject,omitempty"`
}

// Len returns the number of recorded sources.
func (o *FixtureOracle) Len() int {
	return len(o.replies)
}

func (o *FixtureOracle) ParseReference(_ context.Context, src []byte) (*ast.Node, error) {
	reply, ok := o.replies[string(src)]
	if !ok {
		return nil, fmt.Errorf("banyan: no fixture recorded for source %q", string(src))
	}
	return reply.tree()
}
