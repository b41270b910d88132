// CBarrera | 2026
// avatar.go

package upload

import (
	"fmt"
	"net/url"
	"strings"
)

// AvatarGenerator builds deterministic placeholder avatar URLs for accounts
// that never uploaded a picture.
type AvatarGenerator struct {
	baseURL string
}

func NewAvatarGenerator(baseURL string) *AvatarGenerator {
	return &AvatarGenerator{baseURL: strings.TrimRight(baseURL, "/")}
}

// Placeholder returns an Image seeded by the account name. The empty
// PublicID marks it as generated, so it is never sent to the image host
// for deletion.
func (g *AvatarGenerator) Placeholder(name string) Image {
	return Image{
		PublicID: "",
		URL:      fmt.Sprintf("%s/username?username=%s", g.baseURL, url.QueryEscape(name)),
	}
}
