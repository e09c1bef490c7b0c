package konl

import "log/slog"

// OpenMode selects whether Open gives read-write or read-only access to
// the underlying store.
type OpenMode int

const (
	// RW opens the store for reading and writing, creating it if absent.
	RW OpenMode = iota
	// RO opens an existing store read-only; Index, Delete and a
	// BatchWriter's Index/Commit fail.
	RO
)

// Options configures Open. The zero value opens path read-write with
// badger's default value-log sizing and async writes.
type Options struct {
	Mode             OpenMode
	SyncWrites       bool
	ValueLogFileSize int64
	Logger           *slog.Logger
}

// Option mutates Options; passed variadically to Open.
type Option func(*Options)

// WithMode sets the open mode (RW or RO).
func WithMode(mode OpenMode) Option {
	return func(o *Options) { o.Mode = mode }
}

// WithSyncWrites forces every commit to fsync before returning, trading
// throughput for the guarantee that a crash immediately after a
// successful Index call never loses that document.
func WithSyncWrites(sync bool) Option {
	return func(o *Options) { o.SyncWrites = sync }
}

// WithValueLogFileSize overrides badger's value-log segment size.
func WithValueLogFileSize(n int64) Option {
	return func(o *Options) { o.ValueLogFileSize = n }
}

// WithLogger installs the *slog.Logger an Engine and its Indexes log
// through. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
