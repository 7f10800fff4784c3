package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/leadpoint/site-api/internal/core/domain"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"server selection", topology.ServerSelectionError{Wrapped: errors.New("connection refused")}, true},
		{"network label", mongo.CommandError{Code: 6, Labels: []string{"NetworkError"}}, true},
		{"deadline", fmt.Errorf("round trip: %w", context.DeadlineExceeded), true},
		{"duplicate key", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, false},
		{"decode", errors.New("cannot decode string into an integer type"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr("find article", tt.err)
			if got := errors.Is(err, domain.ErrDatabaseUnavailable); got != tt.unavailable {
				t.Fatalf("unavailable = %v, want %v (err=%v)", got, tt.unavailable, err)
			}
			if !strings.HasPrefix(err.Error(), "find article: ") || !strings.HasSuffix(err.Error(), tt.err.Error()) {
				t.Fatalf("unexpected message: %v", err)
			}
		})
	}
}

// A connector whose client is up but whose server is gone.
func unreachableConnector(t *testing.T) *Connector {
	t.Helper()
	c := NewConnector(Config{}, zerolog.Nop(), WithDialer(func(ctx context.Context, _ Config) (*mongo.Client, *mongo.Database, error) {
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI("mongodb://127.0.0.1:1").
			SetServerSelectionTimeout(100*time.Millisecond))
		if err != nil {
			return nil, nil, err
		}
		return client, client.Database("site_test"), nil
	}))
	t.Cleanup(func() { _ = c.Disconnect(context.Background()) })
	return c
}

func TestRepository_LostServerIsUnavailable(t *testing.T) {
	conn := unreachableConnector(t)
	ctx := context.Background()

	q := mustQuery(t, domain.NewArticleQuery, domain.ListParams{}, false)
	if _, _, err := NewArticleRepository(conn).List(ctx, q); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("article list: expected ErrDatabaseUnavailable, got %v", err)
	}
	if _, err := NewJobRepository(conn).FindByIDOrSlug(ctx, "backend-engineer"); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("job lookup: expected ErrDatabaseUnavailable, got %v", err)
	}
	if _, err := NewAdminRepository(conn).FindByEmail(ctx, "ops@example.com"); !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("admin lookup: expected ErrDatabaseUnavailable, got %v", err)
	}
}

func TestClientOptions_LeaveServerSelectionToQueries(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://localhost:27017", Timeout: 2 * time.Second})

	if opts.ServerSelectionTimeout != nil {
		t.Fatalf("unexpected server selection timeout %v", *opts.ServerSelectionTimeout)
	}
	if opts.AppName == nil || *opts.AppName != appName {
		t.Fatalf("app name not set")
	}
}
