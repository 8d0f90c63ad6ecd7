// Package worker keeps CSV snapshots of the ledger in sync with the
// stored collections. It reacts to change events from the server and
// also rewrites on a fixed interval so a missed event only delays a
// snapshot instead of losing it.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/salaswilliams02-bit/Finance-Tracker/internal/amqp"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/core"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/csvio"
	"github.com/salaswilliams02-bit/Finance-Tracker/internal/ledger"
)

type (
	// Consumer delivers ledger change events until the context ends.
	Consumer interface {
		ConsumeLedgerChanged(ctx context.Context, handler func(*amqp.LedgerChangedMessage) error) error
	}

	// TransactionMirror replicates the transaction log to an external
	// surface such as a Google Sheets tab. Optional.
	TransactionMirror interface {
		ReplaceTransactions(ctx context.Context, txns []core.Transaction) error
	}

	// SnapshotWorker rewrites the CSV snapshot from stored state.
	SnapshotWorker struct {
		gateway      ledger.Gateway
		mirror       TransactionMirror
		snapshotPath string
	}
)

func NewSnapshotWorker(gateway ledger.Gateway, mirror TransactionMirror, snapshotPath string) *SnapshotWorker {
	return &SnapshotWorker{
		gateway:      gateway,
		mirror:       mirror,
		snapshotPath: snapshotPath,
	}
}

// HandleChange processes one change event. Goal and category changes
// do not affect the transaction snapshot and are acknowledged without
// work.
func (w *SnapshotWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"collection", msg.Collection,
		"op", msg.Op)

	if msg.Collection != ledger.KeyTransactions {
		return nil
	}
	return w.Snapshot(ctx)
}

// Snapshot loads the stored transaction log and rewrites the CSV file,
// then refreshes the mirror when one is configured. A mirror failure is
// logged but does not fail the snapshot; the file on disk is already
// current.
func (w *SnapshotWorker) Snapshot(ctx context.Context) error {
	txns, err := w.loadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	text := csvio.Encode(txns)
	if err := writeFileAtomic(w.snapshotPath, []byte(text)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot written",
		"path", w.snapshotPath,
		"transactions", len(txns))

	if w.mirror != nil {
		if err := w.mirror.ReplaceTransactions(ctx, txns); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh mirror", "error", err)
		}
	}

	return nil
}

// Run consumes change events and keeps an interval-based rewrite going
// until ctx is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.ConsumeLedgerChanged(ctx, func(msg *amqp.LedgerChangedMessage) error {
			return w.HandleChange(ctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Snapshot(ctx); err != nil {
					slog.ErrorContext(ctx, "Periodic snapshot failed", "error", err)
				}
			}
		}
	})

	return g.Wait()
}

func (w *SnapshotWorker) loadTransactions(ctx context.Context) ([]core.Transaction, error) {
	raw, ok := w.gateway.Load(ctx, ledger.KeyTransactions)
	if !ok {
		return nil, nil
	}
	var txns []core.Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, fmt.Errorf("decode stored transactions: %w", err)
	}
	return txns, nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated snapshot.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
