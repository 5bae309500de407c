package videos

import "time"

// Author is the denormalized profile summary shown next to a video.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UnknownAuthor is used when an author's profile cannot be resolved.
var UnknownAuthor = Author{ID: "", Name: "Unknown User", Avatar: ""}

// Video is a short-video feed item. Counters are advisory estimates kept on
// the row; the relationship tables are authoritative.
type Video struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	VideoURL      string    `json:"videoUrl" db:"video_url"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	Caption       string    `json:"caption" db:"caption"`
	Author        Author    `json:"author"`
	LikesCount    int       `json:"likesCount" db:"likes_count"`
	CommentsCount int       `json:"commentsCount" db:"comments_count"`
}

// Page is one slice of the feed.
// HasMore is true only if the page was full and the store reports more rows
// beyond it.
type Page struct {
	Items    []*Video `json:"items"`
	NextPage int      `json:"nextPage,omitempty"`
	HasMore  bool     `json:"hasMore"`
	// FromCache marks a page served from the list cache after a failed fetch.
	FromCache bool `json:"fromCache,omitempty"`
}

func emptyPage() *Page {
	return &Page{Items: []*Video{}}
}
