package konl

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/wizenheimer/konlsearch/codec"
	"github.com/wizenheimer/konlsearch/kvstore"
)

// logSeqDigits is the fixed hex width of a search log sequence id, wide
// enough that ascending key order tracks insertion order exactly like
// document ids do.
const logSeqDigits = 10

const lastLogIDKey = "last_log_id"

// searchLog is an append-only, observational record of queries run
// against an index: "access:<seq-hex10>:<token>" -> result-size, per
// spec.md §4.7. It never participates in search correctness.
//
// The reference implementation keys each entry by wall-clock second plus
// a 4-digit intra-second sequence; this reimplementation collapses that
// to one global monotonic sequence per index, since the per-second
// bucketing was only ever a display convenience and SPEC_FULL.md records
// this as a deliberate simplification.
type searchLog struct {
	store *kvstore.Store
	cf    kvstore.ColumnFamily

	mu  sync.Mutex
	seq uint64
}

func openSearchLog(store *kvstore.Store, cf kvstore.ColumnFamily) (*searchLog, error) {
	var seq uint64
	err := store.Read(func(v *kvstore.View) error {
		raw, ok, err := v.Get(cf, []byte(lastLogIDKey))
		if err != nil || !ok {
			return err
		}
		seq, err = codec.Uint64(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &searchLog{store: store, cf: cf, seq: seq}, nil
}

// LogEntry is one row read back from the search log.
type LogEntry struct {
	SeqID      uint64
	Token      string
	ResultSize uint64
}

// appendQuery records one Search call: the space-joined query tokens and
// the number of ids it returned, under a fresh sequence id.
func (l *searchLog) appendQuery(tokens []string, resultSize int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.seq + 1

	err := l.store.Update(func(b *kvstore.Batch) error {
		key := logKey(seq, strings.Join(tokens, " "))
		if err := b.Set(l.cf, key, codec.PutUint64(uint64(resultSize))); err != nil {
			return err
		}
		return b.Set(l.cf, []byte(lastLogIDKey), codec.PutUint64(seq))
	})
	if err != nil {
		return err
	}

	l.seq = seq
	return nil
}

// GetRangeSeqID returns every log entry with sequence id in [start, end),
// ascending.
func (l *searchLog) GetRangeSeqID(start, end uint64) ([]LogEntry, error) {
	var entries []LogEntry
	err := l.store.Read(func(v *kvstore.View) error {
		it := v.Iterator(l.cf, []byte("access:"))
		defer it.Close()

		it.Seek([]byte(fmt.Sprintf("access:%0*x:", logSeqDigits, start)))

		for it.Valid() {
			seq, token, ok := parseLogKey(it.Key())
			if !ok {
				it.Next()
				continue
			}
			if seq >= end {
				break
			}

			val, err := it.Value()
			if err != nil {
				return err
			}
			size, err := codec.Uint64(val)
			if err != nil {
				return err
			}

			entries = append(entries, LogEntry{SeqID: seq, Token: token, ResultSize: size})
			it.Next()
		}
		return nil
	})
	return entries, err
}

func logKey(seq uint64, token string) []byte {
	return []byte(fmt.Sprintf("access:%0*x:%s", logSeqDigits, seq, token))
}

func parseLogKey(key []byte) (seq uint64, token string, ok bool) {
	s := string(key)
	if !strings.HasPrefix(s, "access:") {
		return 0, "", false
	}
	rest := s[len("access:"):]

	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return 0, "", false
	}

	seq, err := strconv.ParseUint(parts[0], 16, 64)
	if err != nil {
		return 0, "", false
	}
	return seq, parts[1], true
}
