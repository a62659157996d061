// Package operator implements the query operator pipeline: an abstract
// base node, GetTable (a catalog read), and TableScan (the predicate
// engine that produces zero-copy reference-segment results).
package operator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dyod/columnstore/internal/dtype"
	"github.com/dyod/columnstore/internal/table"
)

// Operator is a pipeline node: Execute runs it exactly once; Output
// yields the produced table once Execute has completed.
type Operator interface {
	Execute() error
	Output() (*table.Table, error)
}

// Base implements the shared execution-lifecycle bookkeeping every
// concrete operator embeds. Concrete operators call Finish from their own
// Execute method once their onExecute logic has produced an output.
type Base struct {
	Left, Right Operator

	output   *table.Table
	executed bool
}

// NewBase wires up to two input operators. Either may be nil for a
// leaf/unary operator.
func NewBase(left, right Operator) Base {
	return Base{Left: left, Right: right}
}

// LeftInputTable returns the left input's output table.
func (b *Base) LeftInputTable() (*table.Table, error) {
	if b.Left == nil {
		return nil, fmt.Errorf("operator: no left input: %w", dtype.ErrInvalidArgument)
	}
	return b.Left.Output()
}

// RightInputTable returns the right input's output table.
func (b *Base) RightInputTable() (*table.Table, error) {
	if b.Right == nil {
		return nil, fmt.Errorf("operator: no right input: %w", dtype.ErrInvalidArgument)
	}
	return b.Right.Output()
}

// Finish records out as this operator's produced output and marks it
// executed. It panics if called twice or with a nil table — both are
// contract violations, not recoverable failures: execute is a synchronous
// call that must not be invoked twice, and an operator must always
// produce a full table or return an error instead of calling Finish.
func (b *Base) Finish(out *table.Table) error {
	if b.executed {
		panic("operator: execute called twice")
	}
	if out == nil {
		panic("operator: no output table was returned after operator execution")
	}
	b.output = out
	b.executed = true
	return nil
}

// Output returns the produced table, failing with ErrNotExecuted if
// Execute has not yet completed.
func (b *Base) Output() (*table.Table, error) {
	if !b.executed {
		return nil, fmt.Errorf("operator: %w", dtype.ErrNotExecuted)
	}
	return b.output, nil
}

var noopLogger = zap.NewNop()
