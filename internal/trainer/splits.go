package trainer

import (
	"fmt"
	"math/rand"
)

// Split names the train and validation row indices of one fold
type Split struct {
	Train    []int
	Validate []int
}

// KFold produces k shuffled train/validation splits over n rows.
// Shuffling is seeded for reproducible evaluation runs.
func KFold(n, k int, seed int64) ([]Split, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count must be at least 2")
	}
	if n < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, k)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	splits := make([]Split, 0, k)
	for fold := 0; fold < k; fold++ {
		lo := fold * n / k
		hi := (fold + 1) * n / k
		validate := append([]int{}, perm[lo:hi]...)
		train := make([]int, 0, n-len(validate))
		train = append(train, perm[:lo]...)
		train = append(train, perm[hi:]...)
		splits = append(splits, Split{Train: train, Validate: validate})
	}
	return splits, nil
}

// Chronological produces k expanding-window splits over n date-ordered
// rows. The rows are cut into k+1 contiguous chunks; fold i trains on
// chunks [0, i] and validates on chunk i+1, so training data always
// precedes validation data and no later label leaks backwards.
func Chronological(n, k int) ([]Split, error) {
	if k < 1 {
		return nil, fmt.Errorf("fold count must be at least 1")
	}
	if n < k+1 {
		return nil, fmt.Errorf("cannot split %d rows into %d chronological folds", n, k)
	}

	splits := make([]Split, 0, k)
	for fold := 1; fold <= k; fold++ {
		boundary := fold * n / (k + 1)
		next := (fold + 1) * n / (k + 1)
		train := make([]int, 0, boundary)
		for i := 0; i < boundary; i++ {
			train = append(train, i)
		}
		validate := make([]int, 0, next-boundary)
		for i := boundary; i < next; i++ {
			validate = append(validate, i)
		}
		if len(train) == 0 || len(validate) == 0 {
			continue
		}
		splits = append(splits, Split{Train: train, Validate: validate})
	}
	if len(splits) == 0 {
		return nil, fmt.Errorf("no usable chronological folds for %d rows", n)
	}
	return splits, nil
}
