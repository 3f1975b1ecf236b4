// Package normalisers holds implementations of the driven.Normaliser
// interface. Each one turns a generated document format into readable text.
package normalisers
