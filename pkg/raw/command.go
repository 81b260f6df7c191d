package raw

import (
	"go.uber.org/zap"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/params"
)

// CommandRegistry resolves raw commands to an affected-row count
type CommandRegistry struct {
	*Registry[int64]
}

// NewCommandRegistry creates an empty command registry
func NewCommandRegistry(name string, logger *zap.Logger) *CommandRegistry {
	return &CommandRegistry{Registry: NewRegistry[int64](name, logger)}
}

// RegisterAny makes every command return rows unless a later registration
// matches
func (c *CommandRegistry) RegisterAny(rows int64) *Expectation[int64] {
	exp, _ := c.Registry.register(`""`, Contains(""), params.Subsequence(), rows, nil)
	return exp
}

// RegisterText makes commands containing fragment return rows
func (c *CommandRegistry) RegisterText(fragment string, rows int64) *Expectation[int64] {
	exp, _ := c.Expect(fragment, nil, rows, nil)
	return exp
}

// RegisterParams makes commands containing fragment and carrying registered
// as an ordered subsequence return rows
func (c *CommandRegistry) RegisterParams(fragment string, registered []core.Param, rows int64) *Expectation[int64] {
	exp, _ := c.Expect(fragment, registered, rows, nil)
	return exp
}
