package domain

// Class statuses. Only StatusApprove is interpreted by the server; status
// updates store whatever string the caller sends.
const (
	StatusPending = "Pending"
	StatusApprove = "Approve"
	StatusDenied  = "Denied"
)

// Class Model
type Class struct {
	ID               string  `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`
	Title            string  `json:"title" bson:"title"`
	Image            string  `json:"image,omitempty" bson:"image,omitempty"`
	InstructorName   string  `json:"instructorName" bson:"instructorName"`
	InstructorEmail  string  `gorm:"index;size:255" json:"instructorEmail" bson:"instructorEmail"`
	Price            float64 `json:"price" bson:"price"`
	Status           string  `gorm:"index;size:32" json:"status" bson:"status"`
	Feedback         string  `json:"feedback,omitempty" bson:"feedback,omitempty"`
	EnrolledStudents int     `gorm:"not null;default:0" json:"enrolledStudents" bson:"enrolledStudents"`
	AvailableSeats   int     `gorm:"not null;default:0" json:"availableSeats" bson:"availableSeats"`
}

// FieldValue is one field assignment of a partial class update.
// Field is the Go field name, Doc the JSON/BSON document key.
type FieldValue struct {
	Field string
	Doc   string
	Value any
}

// ClassPatch carries the fields supplied to a full-document upsert.
// Nil fields are left untouched.
type ClassPatch struct {
	Title            *string  `json:"title"`
	Image            *string  `json:"image"`
	InstructorName   *string  `json:"instructorName"`
	InstructorEmail  *string  `json:"instructorEmail"`
	Price            *float64 `json:"price"`
	Status           *string  `json:"status"`
	Feedback         *string  `json:"feedback"`
	EnrolledStudents *int     `json:"enrolledStudents"`
	AvailableSeats   *int     `json:"availableSeats"`
}

// Values lists the supplied fields in a stable order.
func (p ClassPatch) Values() []FieldValue {
	var out []FieldValue
	add := func(field, doc string, v any) {
		out = append(out, FieldValue{Field: field, Doc: doc, Value: v})
	}
	if p.Title != nil {
		add("Title", "title", *p.Title)
	}
	if p.Image != nil {
		add("Image", "image", *p.Image)
	}
	if p.InstructorName != nil {
		add("InstructorName", "instructorName", *p.InstructorName)
	}
	if p.InstructorEmail != nil {
		add("InstructorEmail", "instructorEmail", *p.InstructorEmail)
	}
	if p.Price != nil {
		add("Price", "price", *p.Price)
	}
	if p.Status != nil {
		add("Status", "status", *p.Status)
	}
	if p.Feedback != nil {
		add("Feedback", "feedback", *p.Feedback)
	}
	if p.EnrolledStudents != nil {
		add("EnrolledStudents", "enrolledStudents", *p.EnrolledStudents)
	}
	if p.AvailableSeats != nil {
		add("AvailableSeats", "availableSeats", *p.AvailableSeats)
	}
	return out
}

// Apply copies the supplied fields onto c.
func (p ClassPatch) Apply(c *Class) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.InstructorName != nil {
		c.InstructorName = *p.InstructorName
	}
	if p.InstructorEmail != nil {
		c.InstructorEmail = *p.InstructorEmail
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Feedback != nil {
		c.Feedback = *p.Feedback
	}
	if p.EnrolledStudents != nil {
		c.EnrolledStudents = *p.EnrolledStudents
	}
	if p.AvailableSeats != nil {
		c.AvailableSeats = *p.AvailableSeats
	}
}
