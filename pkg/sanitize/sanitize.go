package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Clean strips unsafe HTML from user-generated content to prevent XSS.
func Clean(input string) string {
	return policy.Sanitize(input)
}
