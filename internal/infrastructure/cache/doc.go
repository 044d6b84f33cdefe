// Package cache provides the run lock that serializes invoice migration runs,
// backed by Redis or, for single-instance deployments, by process memory.
package cache
