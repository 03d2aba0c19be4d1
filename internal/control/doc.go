// Package control provides the numerical building blocks of the tracking
// controller:
//
//   - [History]: fixed-capacity FIFO of recent samples
//   - [PID]: longitudinal speed controller producing a throttle demand
//   - [SolveDARE]: fixed-point solver for the discrete algebraic Riccati equation
//   - [DLQR] and [LQR]: state-feedback gain derived from the Riccati solution
//
// # Usage
//
//	pid := control.NewPID(control.DefaultPIDConfig())
//	out, err := pid.Update(desired, actual, t)
//
//	sol, err := control.DLQR(a, b, q, r, control.DefaultDAREOptions())
//	u := control.NewLQR(sol.K).Compute(xs)
//
// [PID] implements Configurable for live tuning, and [ApplyParams] sets a
// batch of named gains. Nothing in this package is safe for concurrent use
// by multiple goroutines; [ParallelFor] runs independent work items only.
package control
