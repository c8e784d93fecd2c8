package utils

import "github.com/microcosm-cc/bluemonday"

// ugcPolicy allows the markup a post or comment may reasonably carry and
// strips everything else. Links are forced to rel="nofollow".
var ugcPolicy = newUGCPolicy()

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize filters user-authored text through the UGC policy before it is
// stored. Plain text passes through unchanged.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}
