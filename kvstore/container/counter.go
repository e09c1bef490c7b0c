package container

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wizenheimer/konlsearch/kvstore"
)

// counterDigits is the width, in hex digits, of the flipped count
// embedded in a counter's sorted-set keys. 32 bits bounds per-key
// frequency to 2^32-1; Design Note "Counter-flip width" leaves overflow
// behavior undefined, matching the source this is grounded on.
const counterDigits = 8

const counterMax = 1<<32 - 1

// Counter maintains a key→count map alongside a set ordered by
// one's-complemented count, so a prefix scan of the set yields entries
// in count-descending order. compact() evicts the smallest-count tail
// entry once the map exceeds maxSize. Grounded on
// original_source/konlsearch/counter.py, which composes exactly this
// Set+Map pair under one prefix.
type Counter struct {
	store   *kvstore.Store
	cf      kvstore.ColumnFamily
	prefix  string
	maxSize int
}

// NewCounter returns a Counter rooted at "<prefix>:counter", keeping at
// most maxSize keys.
func NewCounter(store *kvstore.Store, cf kvstore.ColumnFamily, prefix string, maxSize int) *Counter {
	return &Counter{store: store, cf: cf, prefix: fmt.Sprintf("%s:counter", prefix), maxSize: maxSize}
}

// Increase adds increment to key's count (creating it at increment if
// absent), then compacts.
func (c *Counter) Increase(key string, increment int64) error {
	return c.store.Update(func(b *kvstore.Batch) error {
		dict := NewMapBatchWriter(b, c.cf, c.prefix)
		set := NewSetBatchWriter(b, c.cf, c.prefix)

		count, err := c.get(dict, key)
		if err != nil {
			return err
		}
		newCount := count + increment

		if err := c.put(dict, key, newCount); err != nil {
			return err
		}
		if err := set.Add(buildElement(key, newCount)); err != nil {
			return err
		}
		if count != 0 {
			if err := set.Remove(buildElement(key, count)); err != nil {
				return err
			}
		}

		return c.compact(b, dict, set)
	})
}

// Decrease subtracts decrement from key's count, deleting the key if the
// result is zero or less, then compacts. A no-op for an unknown key.
func (c *Counter) Decrease(key string, decrement int64) error {
	return c.store.Update(func(b *kvstore.Batch) error {
		dict := NewMapBatchWriter(b, c.cf, c.prefix)
		set := NewSetBatchWriter(b, c.cf, c.prefix)

		count, err := c.get(dict, key)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}

		newCount := count - decrement

		if newCount > 0 {
			if err := c.put(dict, key, newCount); err != nil {
				return err
			}
			if err := set.Add(buildElement(key, newCount)); err != nil {
				return err
			}
		} else {
			if err := dict.Delete(key); err != nil {
				return err
			}
		}

		if err := set.Remove(buildElement(key, count)); err != nil {
			return err
		}

		return c.compact(b, dict, set)
	})
}

// Get returns key's current count (0 if unknown).
func (c *Counter) Get(key string) (int64, error) {
	var n int64
	err := c.store.Read(func(v *kvstore.View) error {
		raw, ok, err := NewMapView(v, c.cf, c.prefix).Get(key)
		if err != nil || !ok {
			return err
		}
		n, err = strconv.ParseInt(raw, 10, 64)
		return err
	})
	return n, err
}

// Delete removes key entirely, regardless of count.
func (c *Counter) Delete(key string) error {
	return c.store.Update(func(b *kvstore.Batch) error {
		dict := NewMapBatchWriter(b, c.cf, c.prefix)
		set := NewSetBatchWriter(b, c.cf, c.prefix)

		count, err := c.get(dict, key)
		if err != nil {
			return err
		}
		if count == 0 {
			ok, err := dict.Contains(key)
			if err != nil || !ok {
				return err
			}
		}

		if err := set.Remove(buildElement(key, count)); err != nil {
			return err
		}
		return dict.Delete(key)
	})
}

// Items returns key/count pairs ordered by count, descending.
func (c *Counter) Items() ([]CounterItem, error) {
	var items []CounterItem
	err := c.store.Read(func(v *kvstore.View) error {
		elements, err := NewSetView(v, c.cf, c.prefix).Items()
		if err != nil {
			return err
		}

		items = make([]CounterItem, 0, len(elements))
		for _, e := range elements {
			key, count, err := parseElement(e)
			if err != nil {
				return err
			}
			items = append(items, CounterItem{Key: key, Count: count})
		}
		return nil
	})
	return items, err
}

// CounterItem is one key/count pair returned by Counter.Items.
type CounterItem struct {
	Key   string
	Count int64
}

func (c *Counter) get(dict *MapBatchWriter, key string) (int64, error) {
	raw, ok, err := dict.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *Counter) put(dict *MapBatchWriter, key string, count int64) error {
	// MapBatchWriter.Set never overwrites an existing key, so clear it
	// first: the count changes on every Increase/Decrease call.
	if err := dict.Delete(key); err != nil {
		return err
	}
	return dict.Set(key, strconv.FormatInt(count, 10))
}

// compact evicts the current tail (lowest-count) element while the map
// holds more than maxSize keys.
func (c *Counter) compact(b *kvstore.Batch, dict *MapBatchWriter, set *SetBatchWriter) error {
	for {
		elements, err := setItemsInBatch(b, c.cf, c.prefix)
		if err != nil {
			return err
		}
		if len(elements) <= c.maxSize {
			return nil
		}

		last := elements[len(elements)-1]
		key, _, err := parseElement(last)
		if err != nil {
			return err
		}

		if err := dict.Delete(key); err != nil {
			return err
		}
		if err := set.Remove(last); err != nil {
			return err
		}
	}
}

// setItemsInBatch scans the sorted-set portion of a counter directly off
// the open batch. The iterator already yields ascending byte order, so
// the result is count-descending (largest count first).
func setItemsInBatch(b *kvstore.Batch, cf kvstore.ColumnFamily, prefix string) ([]string, error) {
	it := b.Iterator(cf, setPrefix(prefix))
	defer it.Close()

	var items []string
	for it.Valid() {
		items = append(items, stripSetPrefix(prefix, it.Key()))
		it.Next()
	}
	return items, nil
}

// buildElement encodes key and count as a flipped-count sorted-set
// member: the largest count sorts first under ascending byte order.
func buildElement(key string, count int64) string {
	flipped := counterMax ^ uint32(count)
	return fmt.Sprintf("%0*x:%s", counterDigits, flipped, key)
}

// parseElement inverts buildElement.
func parseElement(element string) (key string, count int64, err error) {
	parts := strings.SplitN(element, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("kvstore/container: malformed counter element %q", element)
	}

	flipped, err := strconv.ParseUint(parts[0], 16, 32)
	if err != nil {
		return "", 0, fmt.Errorf("kvstore/container: malformed counter element %q: %w", element, err)
	}

	return parts[1], int64(counterMax ^ uint32(flipped)), nil
}
