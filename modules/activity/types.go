package activity

// RecentRequest asks for the newest entries of the feed.
type RecentRequest struct {
	Limit int `json:"limit"`
}

// RecentReply carries feed entries, newest first.
type RecentReply struct {
	Entries []Entry `json:"entries"`
}
