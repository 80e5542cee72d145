package assembly

import "bytes"

// Serialisation stamps a fresh file ID and current-time info dates into
// every written document, so two runs over the same input differ in those
// bytes alone. canonicalize rewrites them to fixed values of equal length,
// which keeps every cross reference offset valid and makes assembly output
// reproducible down to the byte. newConfiguration disables cross reference
// and object streams so these fields stay in cleartext.

var (
	creationDateKey = []byte("/CreationDate(D:")
	modDateKey      = []byte("/ModDate(D:")
	fileIDKey       = []byte("/ID[")
	trailerKeyword  = []byte("trailer")
)

// canonicalize overwrites volatile metadata in a serialised document in
// place and returns the same slice.
func canonicalize(data []byte) []byte {
	overwriteDates(data, creationDateKey)
	overwriteDates(data, modDateKey)
	overwriteFileID(data)
	return data
}

// overwriteDates replaces the digits of every date string introduced by
// key with a fixed epoch, preserving length and structure. The 14 leading
// digits form the timestamp, the remaining ones the UTC offset.
func overwriteDates(data, key []byte) {
	const epoch = "200001010000000000"
	for off := 0; ; {
		i := bytes.Index(data[off:], key)
		if i < 0 {
			return
		}
		i += off + len(key)
		for j, n := i, 0; j < len(data) && data[j] != ')'; j++ {
			if data[j] >= '0' && data[j] <= '9' && n < len(epoch) {
				data[j] = epoch[n]
				n++
			}
		}
		off = i
	}
}

// overwriteFileID zeroes the hex digits of the trailer's ID array. Only
// the bytes after the final trailer keyword are touched; a stream body
// containing the same byte pattern stays intact.
func overwriteFileID(data []byte) {
	t := bytes.LastIndex(data, trailerKeyword)
	if t < 0 {
		return
	}
	i := bytes.Index(data[t:], fileIDKey)
	if i < 0 {
		return
	}
	for j := t + i + len(fileIDKey); j < len(data) && data[j] != ']'; j++ {
		if data[j] != '<' && data[j] != '>' {
			data[j] = '0'
		}
	}
}
