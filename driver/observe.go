package driver

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/christopher1986/querybuilder/utils"
)

// ConnOptions configures optional connection behavior. The zero value
// disables logging, journaling and statement caching.
type ConnOptions struct {
	// Logger receives one debug record per executed statement and one
	// error record per failure. Nil discards everything.
	Logger *slog.Logger

	// Journal records executed statements for inspection. Nil disables it.
	Journal *Journal

	// StmtCache bounds the prepared statement cache. Zero disables caching
	// for connections that support it.
	StmtCache int
}

// observer carries the logging and journaling shared by connection
// implementations. Each connection gets a UUID so records from shared
// handles stay distinguishable.
type observer struct {
	logger   *slog.Logger
	journal  *Journal
	id       uuid.UUID
	connHash uint64
}

func newObserver(opts ConnOptions) observer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.New()
	return observer{
		logger:   logger,
		journal:  opts.Journal,
		id:       id,
		connHash: utils.FingerprintString(id.String()),
	}
}

// ID returns the connection's identifier.
func (o *observer) ID() uuid.UUID {
	return o.id
}

func (o *observer) observe(ctx context.Context, op, sqlText, bound string, args []any, start time.Time, err error) {
	elapsed := time.Since(start)

	var journalID string
	if o.journal != nil {
		entry := Entry{SQL: sqlText, Bound: bound, Args: args, Duration: elapsed}
		if err != nil {
			entry.Err = err.Error()
		}
		journalID = o.journal.Record(entry).String()
	}

	attrs := []any{
		"op", op,
		"conn_id", o.id.String(),
		"stmt_key", utils.Mix64(o.connHash, utils.FingerprintString(sqlText)),
		"elapsed", elapsed,
	}
	if journalID != "" {
		attrs = append(attrs, "journal_id", journalID)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
		o.logger.ErrorContext(ctx, "statement failed", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "statement executed", attrs...)
}
