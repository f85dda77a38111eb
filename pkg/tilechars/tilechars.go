// Package tilechars maps tile-type labels to the single characters used to
// draw room grids inside map scripts.
package tilechars

import (
	"errors"
	"fmt"
)

// Alphabet is the dense character set handed out to tile labels, in order.
const Alphabet = ".0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ@#$%=?!^&/:;*+~-_,(){}<>'"

var ErrTooManyTileKinds = errors.New("too many tile kinds")

var alphabet = []rune(Alphabet)

// Size is the number of labels a Map can hold.
func Size() int {
	return len(alphabet)
}

type Map struct {
	labels  []string
	toChar  map[string]rune
	toLabel map[rune]string
}

// New assigns the i-th alphabet character to the i-th label. A repeated
// label keeps the character of its first occurrence.
func New(labels []string) (*Map, error) {
	m := &Map{
		labels:  make([]string, 0, len(labels)),
		toChar:  make(map[string]rune, len(labels)),
		toLabel: make(map[rune]string, len(labels)),
	}
	for _, label := range labels {
		if _, ok := m.toChar[label]; ok {
			continue
		}
		if len(m.labels) == len(alphabet) {
			return nil, fmt.Errorf("%w: more than %d distinct labels", ErrTooManyTileKinds, len(alphabet))
		}
		ch := alphabet[len(m.labels)]
		m.labels = append(m.labels, label)
		m.toChar[label] = ch
		m.toLabel[ch] = label
	}
	return m, nil
}

func (m *Map) Char(label string) (rune, bool) {
	ch, ok := m.toChar[label]
	return ch, ok
}

func (m *Map) Label(ch rune) (string, bool) {
	label, ok := m.toLabel[ch]
	return label, ok
}

// Labels returns the labels in character order.
func (m *Map) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

func (m *Map) Len() int {
	return len(m.labels)
}
