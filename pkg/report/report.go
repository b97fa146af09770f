// Package report defines the tabular rows every engine renders.
package report

import "fmt"

// Row is one line of a calculation report.
type Row struct {
	Label string `json:"label"`
	Qty   string `json:"qty"`
	Unit  string `json:"unit"`
	Hint  string `json:"hint,omitempty"`
}

// Rowf builds a row with a formatted quantity.
func Rowf(label, unit, hint, qtyFormat string, args ...any) Row {
	return Row{Label: label, Qty: fmt.Sprintf(qtyFormat, args...), Unit: unit, Hint: hint}
}

// Notes is an ordered list of messages with duplicates dropped.
type Notes struct {
	list []string
	seen map[string]bool
}

// Addf formats and appends a message unless it is already present.
func (n *Notes) Addf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if n.seen == nil {
		n.seen = make(map[string]bool)
	}
	if n.seen[msg] {
		return
	}
	n.seen[msg] = true
	n.list = append(n.list, msg)
}

// Len returns the number of messages.
func (n *Notes) Len() int {
	return len(n.list)
}

// List returns the messages in insertion order, never nil.
func (n *Notes) List() []string {
	out := make([]string, len(n.list))
	copy(out, n.list)
	return out
}
