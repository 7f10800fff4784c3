package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/leadpoint/site-api/internal/core/domain"
)

// wrapErr prefixes err with op. Errors that mean the server cannot be
// reached also wrap domain.ErrDatabaseUnavailable.
func wrapErr(op string, err error) error {
	if unreachable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDatabaseUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unreachable(err error) bool {
	var sel topology.ServerSelectionError
	if errors.As(err, &sel) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
