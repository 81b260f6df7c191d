// Package mocks provides testify mocks of the dynamock interfaces.
//
// Use them when the code under test depends on core.Database or on the
// DynamoDB ExecuteStatement surface and a full in-memory context is more
// than the test needs.
//
// # Basic Usage
//
//	func TestArchiver(t *testing.T) {
//	    db := new(mocks.MockDatabase)
//	    db.On("ExecuteRaw", mock.Anything, "DELETE FROM Orders", mock.Anything).
//	        Return(int64(3), nil)
//
//	    archived, err := NewArchiver(db).Purge(ctx)
//
//	    db.AssertExpectations(t)
//	}
//
// # Raw Queries
//
// QueryRaw returns []any; items are returned as they were given:
//
//	db.On("QueryRaw", mock.Anything, "Orders", mock.Anything, mock.Anything).
//	    Return([]any{Order{ID: "o1"}}, nil)
//
// # Tips
//
// 1. Use mock.Anything for the context and the variadic parameter slice
// 2. Use mock.MatchedBy to assert on individual parameters
// 3. Always assert expectations were met with AssertExpectations
package mocks

// Helper type aliases for convenience
type (
	// Database is an alias for MockDatabase to allow shorter declarations
	Database = MockDatabase

	// ExecuteStatementClient is an alias for MockExecuteStatementAPI
	ExecuteStatementClient = MockExecuteStatementAPI
)
