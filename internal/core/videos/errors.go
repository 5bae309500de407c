package videos

import "errors"

// ErrAuthorNotFound indicates the profile row for a video's author is missing
var ErrAuthorNotFound = errors.New("author not found")
