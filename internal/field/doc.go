// Package field simulates the ambient particle backdrop.
//
// The field owns a population of fungible particles drifting across a
// rectangular surface and a single recurring shooting star:
//
//   - [Particle]: fixed-velocity point repelled by the pointer, respawned
//     uniformly when it leaves the bounds
//   - [ShootingStar]: waiting -> active -> exhausted cycle driven by
//     wall-clock delta time
//   - [Field]: population sizing, per-frame update and draw
//
// Coordinates are in surface units (pixels for the window frontend, virtual
// pixels for the terminal canvas). Drawing goes through [Surface] so the
// same simulation backs both frontends.
package field
