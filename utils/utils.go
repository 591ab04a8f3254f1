// Package utils provides shared helpers for the storefront services.
package utils

// ToPtr returns a pointer to v, for building partial-update requests
// whose optional fields are pointer-typed.
func ToPtr[T any](v T) *T {
	return &v
}
