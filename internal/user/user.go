// Package user defines the user record exchanged with the remote store, the
// flat form representation edited by sessions, and the field validator.
package user

// User is one user as known to the remote store. ID and Username are assigned
// by the store; ID is zero before creation.
type User struct {
	ID       int     `json:"id,omitempty"`
	Name     string  `json:"name"`
	Username string  `json:"username,omitempty"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website,omitempty"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Address is the nested address object on the wire.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Company is the nested company object on the wire.
type Company struct {
	Name string `json:"name,omitempty"`
}

// Form field names. These are the keys of an ErrorMap.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldUsername    = "username"
	FieldStreet      = "street"
	FieldCity        = "city"
	FieldCompanyName = "companyName"
	FieldWebsite     = "website"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldUsername,
	FieldStreet,
	FieldCity,
	FieldCompanyName,
	FieldWebsite,
}

// Candidate is the flat, editable form of a User. Address and company values
// are flattened into top-level fields.
type Candidate struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Username    string `json:"username,omitempty"`
	Street      string `json:"street"`
	City        string `json:"city"`
	CompanyName string `json:"companyName,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Flatten copies u into a Candidate.
func Flatten(u User) Candidate {
	return Candidate{
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Username:    u.Username,
		Street:      u.Address.Street,
		City:        u.Address.City,
		CompanyName: u.Company.Name,
		Website:     u.Website,
	}
}

// Record re-nests c into a User carrying the given id.
func (c Candidate) Record(id int) User {
	return User{
		ID:       id,
		Name:     c.Name,
		Username: c.Username,
		Email:    c.Email,
		Phone:    c.Phone,
		Website:  c.Website,
		Address:  Address{Street: c.Street, City: c.City},
		Company:  Company{Name: c.CompanyName},
	}
}

// Get returns the value of the named field and whether the field exists.
func (c Candidate) Get(field string) (string, bool) {
	switch field {
	case FieldName:
		return c.Name, true
	case FieldEmail:
		return c.Email, true
	case FieldPhone:
		return c.Phone, true
	case FieldUsername:
		return c.Username, true
	case FieldStreet:
		return c.Street, true
	case FieldCity:
		return c.City, true
	case FieldCompanyName:
		return c.CompanyName, true
	case FieldWebsite:
		return c.Website, true
	default:
		return "", false
	}
}

// With returns a copy of c with the named field set to value. The second
// result is false for an unknown field name, in which case c is returned
// unchanged.
func (c Candidate) With(field, value string) (Candidate, bool) {
	switch field {
	case FieldName:
		c.Name = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	case FieldUsername:
		c.Username = value
	case FieldStreet:
		c.Street = value
	case FieldCity:
		c.City = value
	case FieldCompanyName:
		c.CompanyName = value
	case FieldWebsite:
		c.Website = value
	default:
		return c, false
	}
	return c, true
}
