// Package vehicle defines the data contract between a tracking controller
// and its caller.
//
// The caller owns every value in this package:
//
//   - [State]: planar pose, forward speed, timestamp and frame index
//   - [Waypoint] and [Path]: target positions, each with a target speed
//   - [Command]: the throttle/steer/brake triple produced by a control tick
//
// Faults raised during a tick are reported as [TickError] values wrapping
// one of the sentinel errors declared in errors.go.
package vehicle
