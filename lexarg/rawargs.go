package lexarg

// RawArgs is read access to the unparsed arguments.
//
// The Parser never writes through it. Callers must keep the underlying
// storage alive and unmodified while a Parser or any Arg it produced is in
// use.
type RawArgs interface {
	// Get returns the element at index i, or false if i is out of bounds.
	Get(i int) (OsStr, bool)
	// Len returns the number of elements.
	Len() int
	// IsEmpty reports whether there are no elements.
	IsEmpty() bool
}

// Slice adapts a slice of string-like values to RawArgs.
// Fixed-size arrays can be passed by slicing them: Slice[string](arr[:]).
type Slice[S ~string] []S

// Strings is shorthand for Slice[string] over the given arguments.
func Strings(args ...string) Slice[string] {
	return Slice[string](args)
}

// Get implements RawArgs.
func (s Slice[S]) Get(i int) (OsStr, bool) {
	if i < 0 || i >= len(s) {
		return "", false
	}
	return OsStr(s[i]), true
}

// Len implements RawArgs.
func (s Slice[S]) Len() int { return len(s) }

// IsEmpty implements RawArgs.
func (s Slice[S]) IsEmpty() bool { return len(s) == 0 }
