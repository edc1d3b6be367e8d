package domain

import (
	"errors"
	"time"
)

// DesignStage is the ordered progression of an accepted design commission.
type DesignStage string

const (
	StageInitialSketch DesignStage = "initial_sketch"
	StageRevision1     DesignStage = "revision_1"
	StageRevision2     DesignStage = "revision_2"
	StageRevision3     DesignStage = "revision_3"
	StageFinalDraft    DesignStage = "final_draft"
	StageFinalDesign   DesignStage = "final_design"
)

// stageOrder gives each stage its position in the fixed progression.
var stageOrder = map[DesignStage]int{
	StageInitialSketch: 0,
	StageRevision1:     1,
	StageRevision2:     2,
	StageRevision3:     3,
	StageFinalDraft:    4,
	StageFinalDesign:   5,
}

// Valid reports whether s is a known stage.
func (s DesignStage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

// CanAdvanceTo reports whether next is a strictly forward move in the stage
// progression. Regression and repeats are rejected; skipping forward is
// allowed (a designer may jump straight to final_design).
func (s DesignStage) CanAdvanceTo(next DesignStage) bool {
	cur, ok := stageOrder[s]
	if !ok {
		return false
	}
	n, ok := stageOrder[next]
	if !ok {
		return false
	}
	return n > cur
}

// DesignStatus is pending until the shop purchases the design; purchased is terminal.
type DesignStatus string

const (
	DesignPending   DesignStatus = "pending"
	DesignPurchased DesignStatus = "purchased"
)

var ErrDesignNotFound = errors.New("design not found")
var ErrDesignTaken = errors.New("design already accepted")
var ErrInvalidStage = errors.New("invalid design stage")
var ErrAlreadyPurchased = errors.New("design already purchased")
var ErrNotFinalDesign = errors.New("design must be in final_design stage to purchase")

// Design is created exactly once per accepted design-feed pitch (uniqueness on
// CommentID) and progresses through the stage enum until purchase.
type Design struct {
	ID         string       `json:"id" bson:"_id,omitempty"`
	DesignerID string       `json:"designer_id" bson:"designer_id"`
	ShopID     string       `json:"shop_id" bson:"shop_id"`
	PostID     string       `json:"post_id" bson:"post_id"`
	CommentID  string       `json:"comment_id" bson:"comment_id"`
	Stage      DesignStage  `json:"stage" bson:"stage"`
	Status     DesignStatus `json:"status" bson:"status"`
	Price      float64      `json:"price" bson:"price"`
	Images     []string     `json:"images" bson:"images"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" bson:"updated_at"`
}
