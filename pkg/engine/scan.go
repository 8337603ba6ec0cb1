package engine

import "math"

// Receiver pixel budgets per frame rate.
const (
	receiverCapacity60Hz  = 262144
	receiverCapacity120Hz = 131072
)

// ReceiverCapacity returns the pixel budget of one receiving card at the
// given frame rate. Rates other than 60 and 120 Hz get the 60 Hz budget.
func ReceiverCapacity(frameRate int) (int, ReceiverOutcome) {
	switch frameRate {
	case FrameRate60:
		return receiverCapacity60Hz, ReceiverExact
	case FrameRate120:
		return receiverCapacity120Hz, ReceiverExact
	default:
		return receiverCapacity60Hz, ReceiverFallback60Hz
	}
}

// ModulesPerReceiver returns how many modules one receiving card can drive:
// 8 when eight modules fit the budget, then 4, otherwise 1.
func ModulesPerReceiver(pxH, pxV, capacity int) int {
	switch px := pxH * pxV; {
	case px*8 <= capacity:
		return 8
	case px*4 <= capacity:
		return 4
	default:
		return 1
	}
}

// DCLKMHz returns the data clock needed to refresh a module row at the
// given scan ratio.
func DCLKMHz(scan, pxH, frameRate int) float64 {
	return float64(scan*pxH*frameRate*16) / 1_000_000
}

type scanSearch struct {
	candidates []int
	max        int
	outcome    ScanOutcome
}

// searchScan collects every scan ratio that divides the module height and
// stays within the clock limit, and picks the largest. With no candidate it
// falls back to the configured limit.
func searchScan(pxH, pxV, maxDataGroups, frameRate int, c Constants) scanSearch {
	lo := max(8, pxV/maxDataGroups)
	var cands []int
	for scan := lo; scan <= c.ScanRatioLimit; scan++ {
		if pxV%scan == 0 && DCLKMHz(scan, pxH, frameRate) <= c.DCLKLimitMHz {
			cands = append(cands, scan)
		}
	}
	if len(cands) == 0 {
		return scanSearch{max: c.ScanRatioLimit, outcome: ScanFallback}
	}
	return scanSearch{candidates: cands, max: cands[len(cands)-1], outcome: ScanExact}
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
