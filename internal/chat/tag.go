package chat

import (
	"fmt"
	"time"
)

// UserTag renders a mention for a user id.
func UserTag(id string) string {
	return fmt.Sprintf("<@%s>", id)
}

// RoleTag renders a mention for a role id.
func RoleTag(id string) string {
	return fmt.Sprintf("<@&%s>", id)
}

// ChannelTag renders a link to a channel or thread id.
func ChannelTag(id string) string {
	return fmt.Sprintf("<#%s>", id)
}

// TimeTag renders a timestamp that the platform shows in the reader's
// local timezone.
func TimeTag(t time.Time) string {
	return fmt.Sprintf("<t:%d:t>", t.Unix())
}

// RelativeTimeTag renders a "in 2 hours" style timestamp.
func RelativeTimeTag(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
