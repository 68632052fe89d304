package object

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// HashBytes returns the lowercase hex SHA-256 digest of data.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject derives the storage address of an object: the SHA-256 of its
// envelope, "<type> <payload length>\x00<payload>". Two objects share an
// address only when both type and payload match.
func HashObject(objType ObjectType, payload []byte) Hash {
	h := sha256.New()
	h.Write([]byte(objType))
	h.Write([]byte{' '})
	h.Write([]byte(strconv.Itoa(len(payload))))
	h.Write([]byte{0})
	h.Write(payload)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
