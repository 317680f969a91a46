package colorrange

import "fmt"

// InvalidCountError reports a requested color count the builder
// cannot honor.
type InvalidCountError struct {
	Count  int
	Reason string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid color count %d: %s", e.Count, e.Reason)
}

// ChannelMismatchError reports anchors of differing channel
// cardinality.
type ChannelMismatchError struct {
	Start int
	End   int
}

func (e *ChannelMismatchError) Error() string {
	return fmt.Sprintf("anchor channel mismatch: start has %d channels, end has %d", e.Start, e.End)
}

// AnchorCountError reports a strategy given the wrong number of
// anchors.
type AnchorCountError struct {
	Strategy string
	Got      int
}

func (e *AnchorCountError) Error() string {
	return fmt.Sprintf("strategy %q takes 2 or 3 anchors, got %d", e.Strategy, e.Got)
}

// UnknownStrategyError is returned by Lookup.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown color range strategy %q", e.Name)
}
