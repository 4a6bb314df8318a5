package models

import "time"

// ThreadRecord is the normalized view of a forum thread handed to the
// webhook sender. It is built transiently per event or per sync iteration
// and discarded after dispatch.
type ThreadRecord struct {
	Title     string    // thread display name, verbatim
	URL       string    // deep link: https://discord.com/channels/{guild}/{parent}/{thread}
	Tags      []string  // applied tag names, in applied order
	CreatedAt time.Time // derived from the thread snowflake
	Author    string    // "{display_name} ({user_id})", or a fallback label
	Content   string    // first message body, empty when none
	ForumName string    // parent forum channel display name
}
