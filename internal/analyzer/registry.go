package analyzer

import "fmt"

// NewDetector creates a detector based on the specified variant
func NewDetector(variant string, order Order, bands int) (Detector, error) {
	switch variant {
	case "exact", "":
		return NewScanner(order), nil
	case "banded":
		return NewBandScanner(order, bands), nil
	case "fuzzy":
		return nil, fmt.Errorf("tolerant colour matching is not supported")
	case "8-connected":
		return nil, fmt.Errorf("8-connectivity is not supported")
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
