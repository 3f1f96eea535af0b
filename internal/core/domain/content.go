package domain

import "time"

// Post is an authored article. AuthorID is a weak reference to a User and is
// fixed at creation.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment belongs to exactly one Post and one User. Both references are fixed
// at creation.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment builds a comment linking a resolved post and author.
func NewComment(post *Post, author *User, body string, at time.Time) *Comment {
	return &Comment{
		Body:      body,
		PostID:    post.ID,
		AuthorID:  author.ID,
		CreatedAt: at,
	}
}

// NewPost builds a post owned by a resolved author.
func NewPost(author *User, title, body string, at time.Time) *Post {
	return &Post{
		Title:     title,
		Body:      body,
		AuthorID:  author.ID,
		CreatedAt: at,
	}
}

// ActivityKind names an auditable event.
type ActivityKind string

const (
	ActivityUserRegistered ActivityKind = "user.registered"
	ActivityPostCreated    ActivityKind = "post.created"
	ActivityCommentCreated ActivityKind = "comment.created"
	ActivityCommentRemoved ActivityKind = "comment.removed"
	ActivityIntegrityFault ActivityKind = "integrity.fault"
)

// ActivityEntry is an append-only audit record.
type ActivityEntry struct {
	Kind      ActivityKind `json:"kind"`
	Actor     string       `json:"actor"`
	PostID    string       `json:"post_id,omitempty"`
	CommentID string       `json:"comment_id,omitempty"`
	At        time.Time    `json:"at"`
}
