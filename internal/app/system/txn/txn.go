// Package txn runs multi-collection writes inside a Mongo transaction,
// falling back to sequential writes on deployments without transaction
// support (standalone mongod in development).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server codes returned when sessions or transactions are unavailable.
var unsupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means the deployment cannot run
// transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		if unsupportedCodes[ce.Code] {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hasTxn := strings.Contains(msg, "transaction")
	hasSession := strings.Contains(msg, "session")
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case hasTxn && strings.Contains(msg, "replica set"):
		return true
	case hasSession && strings.Contains(msg, "not supported"):
		return true
	case hasTxn && hasSession:
		return true
	}
	return false
}

// Run executes fn in a transaction on client. If the server rejects
// transactions, fn runs once more without one. fn must be safe to retry.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, op string, fn func(ctx context.Context) error) error {
	if client == nil {
		return fn(ctx)
	}
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fallback(ctx, log, op, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fallback(ctx, log, op, err, fn)
	}
	return err
}

func fallback(ctx context.Context, log *zap.Logger, op string, cause error, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Debug("transactions unavailable; running without",
			zap.String("operation", op), zap.Error(cause))
	}
	return fn(ctx)
}
