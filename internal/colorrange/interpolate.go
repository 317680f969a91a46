package colorrange

// InterpolatePair expands start and end into count colors by
// per-channel linear interpolation. Index 0 is start and index
// count-1 is end, both exact.
func InterpolatePair(start, end []float64, count int) ([][]float64, error) {
	if len(start) != len(end) {
		return nil, &ChannelMismatchError{Start: len(start), End: len(end)}
	}
	if count < 2 {
		return nil, &InvalidCountError{Count: count, Reason: "at least 2 colors are required"}
	}

	den := float64(count - 1)
	result := make([][]float64, count)
	for i := 0; i < count; i++ {
		color := make([]float64, len(start))
		for c := range start {
			color[c] = start[c]*float64(count-i-1)/den + end[c]*float64(i)/den
		}
		result[i] = color
	}
	return result, nil
}

// Pair is InterpolatePair over canonical colors.
func Pair(start, end Color, count int) (Range, error) {
	tuples, err := InterpolatePair(start.Channels(), end.Channels(), count)
	if err != nil {
		return nil, err
	}
	out := make(Range, len(tuples))
	for i, t := range tuples {
		if out[i], err = FromChannels(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// InterpolateFieldwise walks the named channels of start and end.
// It produces the same numbers as Pair and exists for callers that
// hold field-named records.
func InterpolateFieldwise(start, end Color, count int) (Range, error) {
	return Pair(start, end, count)
}

// halfCount validates an even count that splits into two halves
// of at least two colors each.
func halfCount(count int) (int, error) {
	if count%2 != 0 {
		return 0, &InvalidCountError{Count: count, Reason: "count must be even"}
	}
	if count < 4 {
		return 0, &InvalidCountError{Count: count, Reason: "each half needs at least 2 colors"}
	}
	return count / 2, nil
}

// InterpolateThreeAnchor blends start to mid over the first half
// of the range and mid to end over the second half.
func InterpolateThreeAnchor(start, mid, end Color, count int) (Range, error) {
	half, err := halfCount(count)
	if err != nil {
		return nil, err
	}
	first, err := Pair(start, mid, half)
	if err != nil {
		return nil, err
	}
	second, err := Pair(mid, end, half)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// InterpolateDiverging fades start toward reference over the first
// half and rises from reference to end over the second half.
func InterpolateDiverging(start, end, reference Color, count int) (Range, error) {
	half, err := halfCount(count)
	if err != nil {
		return nil, err
	}
	first, err := Pair(start, reference, half)
	if err != nil {
		return nil, err
	}
	second, err := Pair(end, reference, half)
	if err != nil {
		return nil, err
	}
	return append(first, second.Reverse()...), nil
}
