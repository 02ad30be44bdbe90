package models

// Doctor is the client's read copy of a backend doctor profile
type Doctor struct {
	ID             int64      `json:"id"`
	User           DoctorUser `json:"user"`
	Specialization string     `json:"specialization"`
	Hospital       string     `json:"hospital"`
	Contact        string     `json:"contact"`
	Bio            string     `json:"bio"`
	ProfileImage   string     `json:"profile_image,omitempty"`
}

// DoctorUser is the account embedded in a doctor profile.
type DoctorUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// DoctorForm carries the multipart fields of a doctor create or update.
// User is only sent on create.
type DoctorForm struct {
	User           int64  `form:"user"`
	Specialization string `form:"specialization" binding:"required"`
	Hospital       string `form:"hospital" binding:"required"`
	Contact        string `form:"contact"`
	Bio            string `form:"bio"`
}

// Upload is a file attached to a multipart request.
type Upload struct {
	FieldName string
	FileName  string
	Data      []byte
}
