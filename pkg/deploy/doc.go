// Package deploy drives the Move toolchain for the staking package: compile,
// publish and unit tests, each with the named address Staking bound to the
// contract account. Commands go through a Runner so callers can substitute
// their own process execution.
package deploy
