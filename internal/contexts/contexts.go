// Package contexts describes the four content surfaces. Everything that
// differs between them (context key, write authorization, notification
// wording) lives in one Descriptor per surface, so a single service and a
// single handler cover all four.
package contexts

import "github.com/nexusfeed/backend/internal/models"

// Descriptor is the per-context variant record
type Descriptor struct {
	Kind          string // value stored in posts.context
	KeyParam      string // route parameter carrying the context key; empty for feed
	Label         string // how notification messages name a post here
	PostNotifType string // notification type for context-creator fanout on new posts; empty disables it
}

// The four content contexts
var (
	Feed        = Descriptor{Kind: models.ContextFeed, Label: "post"}
	Group       = Descriptor{Kind: models.ContextGroup, KeyParam: "group_id", Label: "group post", PostNotifType: models.NotifGroupPost}
	Event       = Descriptor{Kind: models.ContextEvent, KeyParam: "event_id", Label: "event post", PostNotifType: models.NotifEventPost}
	Marketplace = Descriptor{Kind: models.ContextMarketplace, KeyParam: "listing_id", Label: "listing post"}
)

// RequiresKey reports whether posts in this context are scoped by a context key
func (d Descriptor) RequiresKey() bool {
	return d.KeyParam != ""
}
