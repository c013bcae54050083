package collect

import "lcmonte/domain/core"

// AppendAll appends values[i] to collections[i] only after checking that
// every value has a destination, so sibling collections never drift apart
// in length: either all of them receive an entry or none do.
func AppendAll(collections []*ScalarCollection, values []float64) error {
	if len(collections) != len(values) {
		return core.NewLengthMismatchError("collections/values", len(collections), len(values))
	}
	for _, c := range collections {
		if c == nil {
			return core.NewInvalidInputError("nil collection in batch append")
		}
	}
	for i, c := range collections {
		c.Add(values[i])
	}
	return nil
}

// AppendNulls appends the undefined marker to every collection. Nulls are
// infallible, so the batch cannot end up partially applied.
func AppendNulls(collections ...*ScalarCollection) {
	for _, c := range collections {
		c.AddNull()
	}
}
