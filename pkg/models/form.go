package models

// Represents the data structure coming from the signup page form.
// No field is required: the mailing-list API is the only validator.
type SignupForm struct {
	FirstName string `form:"fname"`
	LastName  string `form:"lname"`
	Email     string `form:"email"`
}
