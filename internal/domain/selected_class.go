package domain

// SelectedClass Model, a student's unpaid cart entry
type SelectedClass struct {
	ID             string  `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`                 // Primary key
	StudentEmail   string  `gorm:"index;size:255" json:"studentEmail" bson:"studentEmail"`   // Owner
	ClassID        string  `gorm:"index;size:36" json:"classId" bson:"classId"`              // Selected class
	Title          string  `json:"title" bson:"title"`                                       // Copied class title
	Image          string  `json:"image,omitempty" bson:"image,omitempty"`                   // Copied class image
	InstructorName string  `json:"instructorName,omitempty" bson:"instructorName,omitempty"` // Copied instructor name
	Price          float64 `json:"price" bson:"price"`                                       // Price at selection time
}
