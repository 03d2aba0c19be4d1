// Package tracking implements a per-vehicle waypoint tracking controller.
//
// Each call to [Controller.Step] runs one control tick:
//
//  1. [TargetSpeed] picks the nearest waypoint's speed.
//  2. A [control.PID] turns the speed error into throttle.
//  3. [LateralModel] linearizes cross-track and heading error dynamics for
//     the current speed, [control.DLQR] solves for the feedback gain.
//  4. [SteeringLaw] converts the feedback term to a normalized steer value.
//
// A tick that faults returns a [*vehicle.TickError] and leaves the
// controller exactly as it was, so the previous command is held.
//
// # Thread Safety
//
// A Controller is owned by a single control loop. Ticks must not run
// concurrently against the same instance.
package tracking
