package domain

import "errors"

// ErrDuplicateSlug is returned when a trail or badge slug is already
// taken. Slugs are user-facing URL segments and must stay unique.
var ErrDuplicateSlug = errors.New("slug already in use")
