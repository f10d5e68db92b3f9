// Package charging turns a battery level into remaining charge durations and
// projected completion times for each wallbox profile. Every function here is
// pure: the caller supplies the base time and a pre-clamped percentage.
package charging
