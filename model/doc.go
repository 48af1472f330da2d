// Package model defines core types shared across btreego.
//
// # Keys
//
//   - Key: int-or-string union used as the index key everywhere
//   - ParseKey: coercion rule for text input (decimal integer, else string)
//   - Compare: the total order (int keys before string keys)
//
// # Values
//
//   - Record: a JSON document stored under a key
//
// Keys round-trip through JSON as a bare number or string, so snapshot
// payloads and HTTP bodies share one representation.
package model
