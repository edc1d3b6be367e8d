package domain

import (
	"errors"
	"time"
)

var ErrMessageNotFound = errors.New("message not found")
var ErrInvalidPair = errors.New("invalid sender-receiver pair")
var ErrNoPriorPitch = errors.New("shop must pitch to the fan's booking request first")

// validPairs is the directed role-pair table for direct messages. Admin
// appears on neither side: admins may not send or receive messages.
var validPairs = map[Role][]Role{
	RoleShop:     {RoleDesigner, RoleFan},
	RoleDesigner: {RoleShop},
	RoleFan:      {RoleShop},
}

// CanMessage reports whether sender may open a message to receiver.
func CanMessage(sender, receiver Role) bool {
	for _, r := range validPairs[sender] {
		if r == receiver {
			return true
		}
	}
	return false
}

// Message is a direct message between two counterpart accounts. DesignID and
// Stage are set when the message was produced by a design-progress update.
type Message struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	SenderID   string      `json:"sender_id" bson:"sender_id"`
	ReceiverID string      `json:"receiver_id" bson:"receiver_id"`
	Content    string      `json:"content" bson:"content"`
	DesignID   string      `json:"design_id,omitempty" bson:"design_id,omitempty"`
	Stage      DesignStage `json:"stage,omitempty" bson:"stage,omitempty"`
	IsRead     bool        `json:"is_read" bson:"is_read"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
}
