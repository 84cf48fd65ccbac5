// Package common holds the small set of primitive types and error
// helpers shared across the account-state garbage collector's packages.
package common
