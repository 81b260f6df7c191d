package query

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/pay-theory/dynamock/pkg/asyncseq"
	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/raw"
	"github.com/pay-theory/dynamock/pkg/snapshot"
	"github.com/pay-theory/dynamock/pkg/validation"
)

// Options configures a Provider
type Options struct {
	// Logger receives evaluation logs. Defaults to a no-op logger.
	Logger *zap.Logger

	// RejectClientEvaluation fails WhereFunc and OrderByFunc the way a real
	// provider fails predicates it cannot translate
	RejectClientEvaluation bool

	// Commands resolves raw commands issued through Execute
	Commands *raw.CommandRegistry
}

// Provider evaluates operations for one collection. It reads the store's
// snapshot at evaluation time, so mutations made through any handle are
// visible to the next evaluation.
type Provider[T any] struct {
	store            *snapshot.Store[T]
	raw              *raw.Registry[[]T]
	commands         *raw.CommandRegistry
	logger           *zap.Logger
	rejectClientEval bool
}

// NewProvider creates a provider over store. rawQueries may be nil, in which
// case every raw query fails to match.
func NewProvider[T any](store *snapshot.Store[T], rawQueries *raw.Registry[[]T], opts Options) *Provider[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider[T]{
		store:            store,
		raw:              rawQueries,
		commands:         opts.Commands,
		logger:           logger.With(zap.String("collection", store.Name())),
		rejectClientEval: opts.RejectClientEvaluation,
	}
}

// Store returns the backing store
func (p *Provider[T]) Store() *snapshot.Store[T] {
	return p.store
}

// Evaluate runs a sequence-producing operation
func (p *Provider[T]) Evaluate(ctx context.Context, op Operation[T]) ([]T, error) {
	switch o := op.(type) {
	case StandardQuery[T]:
		if err := p.validate(o.Steps); err != nil {
			return nil, err
		}
		p.logger.Debug("evaluating query", zap.Stringer("kind", o.Kind()), zap.Int("steps", len(o.Steps)))
		return p.apply(p.store.Current(), o.Steps)

	case RawQuery[T]:
		if err := p.validate(o.Steps); err != nil {
			return nil, err
		}
		p.logger.Debug("evaluating query", zap.Stringer("kind", o.Kind()), zap.String("text", o.Text))
		source, err := p.resolveRaw(o)
		if err != nil {
			return nil, err
		}
		return p.apply(source, o.Steps)

	case ScalarAggregate[T]:
		return nil, errors.NewError("evaluate", p.store.Name(),
			fmt.Errorf("%w: %s produces a scalar, use EvaluateScalar", errors.ErrUnsupportedOperation, o.Func))

	case RawCommand:
		return nil, errors.NewError("evaluate", p.store.Name(),
			fmt.Errorf("%w: raw commands produce a row count, use Execute", errors.ErrUnsupportedOperation))

	default:
		return nil, errors.NewError("evaluate", p.store.Name(),
			fmt.Errorf("%w: unknown operation %T", errors.ErrUnsupportedOperation, op))
	}
}

// EvaluateAsync returns a sequence that evaluates op each time it is
// enumerated. It never suspends and ignores cancellation.
func (p *Provider[T]) EvaluateAsync(ctx context.Context, op Operation[T]) *asyncseq.Seq[T] {
	return asyncseq.New(func(ctx context.Context) ([]T, error) {
		return p.Evaluate(ctx, op)
	})
}

// EvaluateScalar runs a terminal operator
func (p *Provider[T]) EvaluateScalar(ctx context.Context, agg ScalarAggregate[T]) (any, error) {
	if err := p.validateScalar(agg); err != nil {
		return nil, err
	}

	items, err := p.Evaluate(ctx, agg.Source)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("evaluating scalar", zap.Stringer("func", agg.Func), zap.String("field", agg.Field))
	value, err := aggregate(items, agg)
	if err != nil {
		return nil, errors.NewError(agg.Func.String(), p.store.Name(), err)
	}
	return value, nil
}

// Execute resolves a raw command against the command registry
func (p *Provider[T]) Execute(ctx context.Context, cmd RawCommand) (int64, error) {
	return Execute(ctx, p.commands, cmd)
}

// Execute resolves a raw command against commands. A nil registry matches
// nothing.
func Execute(ctx context.Context, commands *raw.CommandRegistry, cmd RawCommand) (int64, error) {
	if commands == nil {
		return 0, &errors.NoMatchError{Registry: "commands", Text: cmd.Text, Params: cmd.Params}
	}
	return commands.Resolve(cmd.Text, cmd.Params)
}

// CheckProjection reports whether a client-side projection may run against
// this collection. Keyless read-only collections reject it.
func (p *Provider[T]) CheckProjection() error {
	if p.store.ReadOnly() && !p.store.HasKey() {
		return p.reject("client-side projection over a keyless collection")
	}
	return nil
}

func (p *Provider[T]) resolveRaw(o RawQuery[T]) ([]T, error) {
	if p.raw == nil {
		return nil, &errors.NoMatchError{Registry: p.store.Name(), Text: o.Text, Params: o.Params}
	}
	return p.raw.Resolve(o.Text, o.Params)
}

func (p *Provider[T]) validate(steps []Step[T]) error {
	for _, s := range steps {
		if p.rejectClientEval && s.clientEvaluated() {
			return p.reject(fmt.Sprintf("%s cannot be translated and would require client evaluation", s.kind))
		}
		if err := validateStep(s); err != nil {
			return errors.NewError(s.kind.String(), p.store.Name(), err)
		}
	}
	return nil
}

func validateStep[T any](s Step[T]) error {
	switch s.kind {
	case stepWhere:
		if err := validation.ValidateFieldName(s.field); err != nil {
			return err
		}
		_, err := validation.ValidateOperator(s.operator)
		return err
	case stepOrderBy, stepThenBy:
		return validation.ValidateFieldName(s.field)
	}
	return nil
}

func (p *Provider[T]) validateScalar(agg ScalarAggregate[T]) error {
	switch agg.Func {
	case AggElementAt:
		return p.reject(fmt.Sprintf("ElementAt(%d) positional access cannot be translated", agg.Index))
	case AggLast:
		if !slices.ContainsFunc(stepsOf[T](agg.Source), Step[T].ordering) {
			return p.reject("Last requires an ordering to be translated")
		}
	}
	return nil
}

func (p *Provider[T]) reject(reason string) error {
	p.logger.Warn("rejected untranslatable query", zap.String("reason", reason))
	return errors.NewError("translate", p.store.Name(), fmt.Errorf("%w: %s", errors.ErrUnsupportedOperation, reason))
}
