package domain

import "time"

// Enrollment Model, the permanent record of a paid class registration
type Enrollment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`                                // Primary key
	Email           string    `gorm:"index;size:255" json:"email" bson:"email"`                                // Paying student
	ClassID         string    `gorm:"index;size:36" json:"classId" bson:"classId"`                             // Enrolled class
	SelectedClassID string    `gorm:"size:36" json:"selectedClassId" bson:"selectedClassId"`                   // Cart entry consumed by the payment
	ClassName       string    `json:"className,omitempty" bson:"className,omitempty"`                          // Class title at payment time
	Amount          float64   `json:"amount" bson:"amount"`                                                    // Amount paid
	TransactionID   string    `gorm:"uniqueIndex;size:255;not null" json:"transactionId" bson:"transactionId"` // Gateway transaction id
	Date            time.Time `gorm:"index" json:"date" bson:"date"`                                           // Payment date
}
