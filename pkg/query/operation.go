package query

import (
	"fmt"

	"github.com/pay-theory/dynamock/pkg/core"
)

// Kind classifies an operation at the call site that built it
type Kind int

const (
	// KindStandard is a collection query evaluated in memory
	KindStandard Kind = iota
	// KindRawQuery is a free-text query resolved against registered expectations
	KindRawQuery
	// KindRawCommand is a free-text command resolved to an affected-row count
	KindRawCommand
	// KindScalar is a terminal operator producing a single value
	KindScalar
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindRawQuery:
		return "raw-query"
	case KindRawCommand:
		return "raw-command"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation is the closed set of shapes a Provider can evaluate:
// StandardQuery, RawQuery, RawCommand and ScalarAggregate.
type Operation[T any] interface {
	Kind() Kind
	sealed()
}

// StandardQuery applies steps to the collection's current snapshot
type StandardQuery[T any] struct {
	Steps []Step[T]
}

// Kind implements Operation
func (StandardQuery[T]) Kind() Kind { return KindStandard }
func (StandardQuery[T]) sealed()    {}

// RawQuery resolves Text and Params against the collection's raw registry
// and applies Steps to the result
type RawQuery[T any] struct {
	Text   string
	Params []core.Param
	Steps  []Step[T]
}

// Kind implements Operation
func (RawQuery[T]) Kind() Kind { return KindRawQuery }
func (RawQuery[T]) sealed()    {}

// RawCommand is a free-text, non-query command
type RawCommand struct {
	Text   string
	Params []core.Param
}

// Kind implements Operation
func (RawCommand) Kind() Kind { return KindRawCommand }
func (RawCommand) sealed()    {}

// Aggregate names a terminal operator
type Aggregate int

const (
	AggCount Aggregate = iota
	AggAny
	AggFirst
	AggFirstOrDefault
	AggLast
	AggSingle
	AggElementAt
	AggSum
	AggAverage
	AggMin
	AggMax
)

var aggregateNames = map[Aggregate]string{
	AggCount:          "Count",
	AggAny:            "Any",
	AggFirst:          "First",
	AggFirstOrDefault: "FirstOrDefault",
	AggLast:           "Last",
	AggSingle:         "Single",
	AggElementAt:      "ElementAt",
	AggSum:            "Sum",
	AggAverage:        "Average",
	AggMin:            "Min",
	AggMax:            "Max",
}

// String returns the operator name
func (a Aggregate) String() string {
	if name, ok := aggregateNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Aggregate(%d)", int(a))
}

// ScalarAggregate applies a terminal operator to the sequence produced by
// Source. Field is used by Sum, Average, Min and Max; Index by ElementAt.
type ScalarAggregate[T any] struct {
	Source Operation[T]
	Func   Aggregate
	Field  string
	Index  int
}

// Kind implements Operation
func (ScalarAggregate[T]) Kind() Kind { return KindScalar }
func (ScalarAggregate[T]) sealed()    {}

type stepKind int

const (
	stepWhere stepKind = iota
	stepWhereFunc
	stepOrderBy
	stepThenBy
	stepOrderByFunc
	stepLimit
	stepOffset
	stepDistinct
)

func (k stepKind) String() string {
	switch k {
	case stepWhere:
		return "Where"
	case stepWhereFunc:
		return "WhereFunc"
	case stepOrderBy:
		return "OrderBy"
	case stepThenBy:
		return "ThenBy"
	case stepOrderByFunc:
		return "OrderByFunc"
	case stepLimit:
		return "Limit"
	case stepOffset:
		return "Offset"
	case stepDistinct:
		return "Distinct"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// Step is one standard operator in a query
type Step[T any] struct {
	kind     stepKind
	field    string
	operator string
	value    any
	desc     bool
	n        int
	pred     func(T) bool
	compare  func(a, b T) int
}

// String describes the step for logs and errors
func (s Step[T]) String() string {
	switch s.kind {
	case stepWhere:
		return fmt.Sprintf("Where(%s %s %v)", s.field, s.operator, s.value)
	case stepOrderBy, stepThenBy:
		dir := "ASC"
		if s.desc {
			dir = "DESC"
		}
		return fmt.Sprintf("%s(%s %s)", s.kind, s.field, dir)
	case stepLimit, stepOffset:
		return fmt.Sprintf("%s(%d)", s.kind, s.n)
	default:
		return s.kind.String()
	}
}

func (s Step[T]) ordering() bool {
	return s.kind == stepOrderBy || s.kind == stepThenBy || s.kind == stepOrderByFunc
}

func (s Step[T]) clientEvaluated() bool {
	return s.kind == stepWhereFunc || s.kind == stepOrderByFunc
}

func stepsOf[T any](op Operation[T]) []Step[T] {
	switch o := op.(type) {
	case StandardQuery[T]:
		return o.Steps
	case RawQuery[T]:
		return o.Steps
	case ScalarAggregate[T]:
		return stepsOf[T](o.Source)
	default:
		return nil
	}
}
