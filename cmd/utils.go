package cmd

import (
	"fmt"
	"log/slog"

	"github.com/phil-mansfield/formation/logging"
)

// banner announces the start of a mode when logging is turned on.
func banner(mode string) {
	if logging.Mode != logging.Nil {
		slog.Info("Starting mode.", "mode", "formation "+mode)
	}
}

// identityOrder returns the column ordering 0, 1, ..., n - 1.
func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// checkRedshiftList returns an error if zs is empty or contains a negative
// redshift.
func checkRedshiftList(zs []float64) error {
	if len(zs) == 0 {
		return fmt.Errorf("The 'Redshifts' variable is empty.")
	}
	for i, z := range zs {
		if !(z >= 0) {
			return fmt.Errorf("Item %d of variable 'Redshifts' is set to "+
				"%g, but redshifts must be non-negative.", i, z)
		}
	}
	return nil
}
