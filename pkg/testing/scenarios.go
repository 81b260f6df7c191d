package testing

import (
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/mocks"
	"github.com/pay-theory/dynamock/pkg/params"
)

// CommonScenarios provides pre-configured expectations on a mock database
type CommonScenarios struct {
	db *mocks.MockDatabase
}

// NewCommonScenarios creates a scenario helper for db
func NewCommonScenarios(db *mocks.MockDatabase) *CommonScenarios {
	return &CommonScenarios{db: db}
}

// SetupCommand makes any command whose text equals text return rows
func (s *CommonScenarios) SetupCommand(text string, rows int64) *mock.Call {
	return s.db.On("ExecuteRaw", mock.Anything, text, mock.Anything).Return(rows, nil)
}

// SetupCommandFailure makes any command fail
func (s *CommonScenarios) SetupCommandFailure(err error) *mock.Call {
	if err == nil {
		err = errors.New("command failed")
	}
	return s.db.On("ExecuteRaw", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), err)
}

// SetupQuery makes raw queries against collection return items
func (s *CommonScenarios) SetupQuery(collection string, items ...any) *mock.Call {
	return s.db.On("QueryRaw", mock.Anything, collection, mock.Anything, mock.Anything).Return(items, nil)
}

// SetupQueryWithParams is like SetupQuery but requires registered to appear
// in order among the invocation parameters
func (s *CommonScenarios) SetupQueryWithParams(collection string, registered []core.Param, items ...any) *mock.Call {
	return s.db.On("QueryRaw", mock.Anything, collection, mock.Anything,
		mock.MatchedBy(func(actual []core.Param) bool {
			return params.Match(registered, actual)
		})).Return(items, nil)
}

// SetupCollections sets the collection names
func (s *CommonScenarios) SetupCollections(names ...string) *mock.Call {
	return s.db.On("Collections").Return(names)
}
