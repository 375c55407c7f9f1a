// Package warn collects advisory, non-fatal conversion notices
package warn

import "fmt"

// Warning is a non-fatal notice raised while decoding or converting
type Warning struct {
	Stage   string // decode, convert, ...
	Message string
}

func (w Warning) String() string {
	return w.Stage + ": " + w.Message
}

// List accumulates warnings in the order they were raised
type List []Warning

// Addf appends a formatted warning
func (l *List) Addf(stage, format string, args ...any) {
	*l = append(*l, Warning{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Strings renders every warning
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, w := range l {
		out[i] = w.String()
	}
	return out
}
