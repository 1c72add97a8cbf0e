package domain

// Canonical role names. Role checks compare against these exactly.
const (
	RoleAdmin      = "Admin"
	RoleInstructor = "Instructor"
	RoleStudent    = "Student"
)

// User Model
type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"_id" bson:"_id"`                // Primary key
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email" bson:"email"` // Unique email
	Name     string `json:"name" bson:"name"`                                        // Display name
	PhotoURL string `json:"photoURL,omitempty" bson:"photoURL,omitempty"`            // Avatar
	Role     string `gorm:"size:32" json:"role,omitempty" bson:"role,omitempty"`     // Admin, Instructor, Student or empty
}
