package model

import "time"

const (
	ActivityUserRegistered = "user.registered"
	ActivityPostCreated    = "post.created"
	ActivityPostEdited     = "post.edited"
	ActivityPostDeleted    = "post.deleted"
	ActivityCommentCreated = "comment.created"
	ActivityCommentDeleted = "comment.deleted"
)

// ActivityLog is both the queued event payload and the persisted audit row.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"size:32;not null;index" json:"kind"`
	ActorID    uint      `gorm:"not null;index" json:"actor_id"`
	PostID     uint      `gorm:"index" json:"post_id,omitempty"`
	CommentID  uint      `json:"comment_id,omitempty"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
