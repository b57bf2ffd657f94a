package database

import (
	"gorm.io/gorm"
)

// Draft stores the last raw JSON buffer for a schema so an interrupted
// editing session can be resumed. One draft per schema key.
type Draft struct {
	gorm.Model
	SchemaKey string `gorm:"uniqueIndex;not null"` // Identifies the schema this draft belongs to
	Title     string // Human readable schema title at save time
	Content   string `gorm:"type:text"` // Raw JSON buffer
}

// SchemaHistory is a single-row record tracking which schema was edited
// last, so the app can reopen it on start.
type SchemaHistory struct {
	gorm.Model
	CurrentSchema  string
	PreviousSchema string
}
