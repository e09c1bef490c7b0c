package konl

import (
	"bytes"
	"fmt"
	"strconv"
)

// docIDDigits is the fixed hex width spec.md §3 requires so that
// lexicographic key order equals numeric document-id order.
const docIDDigits = 10

func docIDHex(id uint64) string {
	return fmt.Sprintf("%0*x", docIDDigits, id)
}

func lastDocumentIDKey() []byte {
	return []byte("last_document_id")
}

func documentPrefix(name string) []byte {
	return []byte(fmt.Sprintf("%s:document:", name))
}

func documentKey(name string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s:document:%s", name, docIDHex(id)))
}

// parseDocumentIDKey extracts the id from a document key previously
// produced by documentKey for the same index name.
func parseDocumentIDKey(name string, key []byte) (uint64, bool) {
	prefix := documentPrefix(name)
	if !bytes.HasPrefix(key, prefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(string(key[len(prefix):]), 16, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func tokensKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s:tokens", docIDHex(id)))
}

func forwardLengthKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:__len__:document", name))
}

// hashMapPrefix is the container.Map prefix used for hash→id dedup
// entries, yielding the spec's literal `<name>:hash:dict:<hash-hex32>` key
// shape once container.Map applies its own ":dict:" segment.
func hashMapPrefix(name string) string {
	return fmt.Sprintf("%s:hash", name)
}

// registrationKey is the root CF key marking an index as opened, per
// spec.md §3 "Index registration".
func registrationKey(name string) []byte {
	return []byte(fmt.Sprintf("index:%s", name))
}

const registrationPrefix = "index:"
