// Package reference provides independent implementations of the numeric
// kernels, used to cross-check results in verify mode and in tests.
//
// The implementations deliberately use different algorithms from the
// kernels package: fast doubling over math/big for Fibonacci, trial division
// for prime counting and a gonum dense multiply for the matrix product.
package reference
