// Package persistence loads and saves the budget tracker state through a
// string-keyed store, one key per collection.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"budgettracker/internal/core"
	applog "budgettracker/internal/log"
	"budgettracker/internal/storage"
)

// Storage keys, kept compatible with earlier browser builds.
const (
	KeyExpenses  = "budgetTrackerExpenses"
	KeyReminders = "budgetTrackerReminders"
	KeyBudget    = "budgetTrackerBudget"
)

// ErrCorruptState is matched by every DecodeError.
var ErrCorruptState = errors.New("corrupt persisted state")

// DecodeError reports a stored value that could not be parsed.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrCorruptState, e.Err}
}

// Snapshot is the durable part of the application state.
type Snapshot struct {
	Expenses  []core.Expense
	Reminders []core.Reminder
	Budget    core.Money
}

type Options struct {
	// ResetOnCorrupt replaces an unparseable value with its default instead
	// of failing the load.
	ResetOnCorrupt bool
	Logger         *slog.Logger
}

type Adapter struct {
	kv   storage.KV
	opts Options
}

func New(kv storage.KV, opts Options) *Adapter {
	opts.Logger = applog.WithComponent(opts.Logger, applog.ComponentPersistence)
	return &Adapter{kv: kv, opts: opts}
}

// Load reads all three keys. Missing keys leave their defaults.
func (a *Adapter) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	if err := a.loadKey(ctx, KeyExpenses, func(raw string) error {
		var expenses []core.Expense
		if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
			return err
		}
		for i, e := range expenses {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("expense %d (id %d): %w", i, e.ID, err)
			}
		}
		snap.Expenses = expenses
		return nil
	}, func() { snap.Expenses = nil }); err != nil {
		return Snapshot{}, err
	}

	if err := a.loadKey(ctx, KeyReminders, func(raw string) error {
		var reminders []core.Reminder
		if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
			return err
		}
		for i, r := range reminders {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("reminder %d (id %d): %w", i, r.ID, err)
			}
		}
		snap.Reminders = reminders
		return nil
	}, func() { snap.Reminders = nil }); err != nil {
		return Snapshot{}, err
	}

	if err := a.loadKey(ctx, KeyBudget, func(raw string) error {
		b, err := parseBudget(raw)
		if err != nil {
			return err
		}
		snap.Budget = b
		return nil
	}, func() { snap.Budget = core.Money{} }); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

func (a *Adapter) loadKey(ctx context.Context, key string, decode func(string) error, reset func()) error {
	raw, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := decode(raw); err != nil {
		derr := &DecodeError{Key: key, Err: err}
		if !a.opts.ResetOnCorrupt {
			return derr
		}
		reset()
		a.opts.Logger.WarnContext(ctx, "Discarding corrupt stored value",
			applog.FieldStoreKey, key, applog.FieldError, err)
	}
	return nil
}

// Save writes all three keys unconditionally.
func (a *Adapter) Save(ctx context.Context, snap Snapshot) error {
	values, err := Encode(snap)
	if err != nil {
		return err
	}
	if bs, ok := a.kv.(storage.BatchSetter); ok {
		if err := bs.SetMany(ctx, values); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		return nil
	}
	for _, key := range []string{KeyExpenses, KeyReminders, KeyBudget} {
		if err := a.kv.Set(ctx, key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Encode renders a snapshot as the stored key/value pairs.
func Encode(snap Snapshot) (map[string]string, error) {
	expenses := snap.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	reminders := snap.Reminders
	if reminders == nil {
		reminders = []core.Reminder{}
	}
	eb, err := json.Marshal(expenses)
	if err != nil {
		return nil, fmt.Errorf("encode expenses: %w", err)
	}
	rb, err := json.Marshal(reminders)
	if err != nil {
		return nil, fmt.Errorf("encode reminders: %w", err)
	}
	return map[string]string{
		KeyExpenses:  string(eb),
		KeyReminders: string(rb),
		KeyBudget:    snap.Budget.String(),
	}, nil
}

func parseBudget(raw string) (core.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return core.Money{}, fmt.Errorf("budget %q is not a number", raw)
	}
	if d.IsNegative() {
		return core.Money{}, fmt.Errorf("budget %q is negative", raw)
	}
	b, err := core.MoneyFromDecimal(d)
	if err != nil {
		return core.Money{}, fmt.Errorf("budget %q: %w", raw, err)
	}
	return b, nil
}
