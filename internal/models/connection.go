package models

import (
	"strings"
	"time"
)

type ConnectionStatus string

const (
	StatusIgnored    ConnectionStatus = "ignored"
	StatusInterested ConnectionStatus = "interested"
	StatusAccepted   ConnectionStatus = "accepted"
	StatusRejected   ConnectionStatus = "rejected"
)

// ValidForSend reports whether a sender may create a request in this status.
func (s ConnectionStatus) ValidForSend() bool {
	return s == StatusIgnored || s == StatusInterested
}

// ValidForReview reports whether a recipient may resolve a request into this status.
func (s ConnectionStatus) ValidForReview() bool {
	return s == StatusAccepted || s == StatusRejected
}

const MaxRequestMessageLen = 500

// ConnectionRequest is a directed interest signal from one user to another.
// At most one request may exist per pair of users, in either direction.
type ConnectionRequest struct {
	ID         string           `json:"id" bson:"_id"`
	FromUserID string           `json:"from_user_id" bson:"from_user_id"`
	ToUserID   string           `json:"to_user_id" bson:"to_user_id"`
	Status     ConnectionStatus `json:"status" bson:"status"`
	Message    string           `json:"message,omitempty" bson:"message,omitempty"`
	CreatedAt  time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" bson:"updated_at"`
}

type SendConnectionRequest struct {
	ToUserID string `json:"to_user_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

func (r *SendConnectionRequest) Validate() []FieldError {
	var errs []FieldError

	r.Message = strings.TrimSpace(r.Message)

	if r.ToUserID == "" {
		errs = append(errs, FieldError{"to_user_id", "Recipient is required"})
	}
	if r.Status == "" {
		errs = append(errs, FieldError{"status", "Status is required"})
	}
	if len(r.Message) > MaxRequestMessageLen {
		errs = append(errs, FieldError{"message", "Message cannot exceed 500 characters"})
	}

	return errs
}

type ReviewConnectionRequest struct {
	Status string `json:"status"`
}

// ReceivedRequest is a pending request with the sender's public profile joined in.
type ReceivedRequest struct {
	ID        string           `json:"id"`
	From      PublicUser       `json:"from"`
	Status    ConnectionStatus `json:"status"`
	Message   string           `json:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Connection is an accepted request resolved to the other party's public profile.
type Connection struct {
	ID          string     `json:"id"`
	User        PublicUser `json:"user"`
	ConnectedAt time.Time  `json:"connected_at"`
}
