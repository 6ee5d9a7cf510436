package schedule

// Package schedule converts train journeys into per-section occupancy
// windows. The traversal model is deliberately simple: the journey duration
// is split evenly over the route, no per-section travel or dwell times are
// modeled.
