package sync

// ItemStatus is the outcome of one batch item
type ItemStatus string

const (
	ItemOK    ItemStatus = "ok"
	ItemError ItemStatus = "error"
)

// ItemResult models the outcome of processing one batch item. A failed item
// is a value, not an exception: the batch loop records it and moves on.
type ItemResult struct {
	Key    string     `json:"key"`
	Status ItemStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// OK returns a successful item result
func OK(key string) ItemResult {
	return ItemResult{Key: key, Status: ItemOK}
}

// Failed returns a failed item result carrying the error message
func Failed(key string, err error) ItemResult {
	return ItemResult{Key: key, Status: ItemError, Error: err.Error()}
}

// Tally counts total and failed results
func Tally(results []ItemResult) (total, errors int) {
	total = len(results)
	for _, r := range results {
		if r.Status == ItemError {
			errors++
		}
	}
	return total, errors
}
