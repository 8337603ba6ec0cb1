// Package engine derives the engineering specification of a dome LED display.
//
// # Overview
//
// [Compute] maps customer parameters ([Params]) and engineering constants
// ([Constants]) to a complete bill of quantities ([Spec]) in a single pass:
//
//  1. Horizontal pitch from the equatorial arc and horizontal resolution
//  2. Vertical field of view and target vertical resolution
//  3. Receiver pixel budget by frame rate
//  4. Horizontal module count search (multiple of 4 dividing the resolution)
//  5. Vertical module count search (first fit among five candidates)
//  6. North/south split of the vertical modules
//  7. Display area of the spherical sector
//  8. Modules per receiver
//  9. Scan ratio search under the data clock limit
//  10. Per-row LED, scan driver and PWM driver counts
//  11. Totals (LEDs, drivers, modules, hubs, controllers)
//  12. Power per color channel and for the whole system
//  13. Weight and recommended room dimensions
//
// The engine is pure: it performs no I/O, holds no state and is safe for
// concurrent use. It does not validate its inputs; callers run [Validate]
// first. Degenerate inputs that would divide by zero surface as a single
// COMPUTATION_FAILED error and no partial result.
//
// # Fallbacks
//
// The three searches never fail on merely inconvenient inputs. When they fall
// back, the result records it so callers can warn users:
//
//   - [ReceiverFallback60Hz]: frame rate other than 60/120 uses the 60 Hz budget
//   - [VerticalAdjusted]: no vertical candidate fit, so the vertical resolution
//     and vertical field of view were adjusted (lossy)
//   - [ScanFallback]: no scan ratio satisfied the clock limit, so the scan ratio
//     limit itself is used
//
// [Spec.Warnings] renders these as sentences.
//
// # Usage
//
//	p := engine.DefaultParams()
//	p.DiameterMM = 5000
//	if err := engine.Validate(p); err != nil {
//	    return err
//	}
//	spec, err := engine.Compute(p, engine.DefaultConstants())
package engine
