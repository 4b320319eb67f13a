// Package kvstore is the per-user durable key-value store: session flags,
// the cached profile and the favourites list. Redis backs it in production;
// Memory serves tests and single-process deployments.
package kvstore

// Well-known keys.
const (
	KeyIsLoggedIn = "isLoggedIn"
	KeyUserEmail  = "userEmail"
	KeyUserName   = "userName"
	KeyUserID     = "userId"
	KeyFavorites  = "favoriteSignsV2"
)
