package mcptools

import "github.com/dusk-indust/userdesk/internal/user"

// ListUsersInput is the input for the list_users MCP tool.
type ListUsersInput struct {
	Search string `json:"search,omitempty" jsonschema:"case-insensitive substring of the user name; empty lists every user"`
}

// ListUsersOutput is the result of the list_users MCP tool.
type ListUsersOutput struct {
	Users []user.User `json:"users"`
	Total int         `json:"total"` // size of the unfiltered list
}

// GetUserInput is the input for the get_user MCP tool.
type GetUserInput struct {
	ID int `json:"id" jsonschema:"id of the user to fetch from the remote store"`
}

// GetUserOutput is the result of the get_user MCP tool.
type GetUserOutput struct {
	User  user.User `json:"user"`
	Found bool      `json:"found"`
}

// CreateUserInput is the input for the create_user MCP tool.
type CreateUserInput struct {
	User user.Candidate `json:"user" jsonschema:"flat user fields: name, email, phone, street, city required; companyName, website optional"`
}

// UpdateUserInput is the input for the update_user MCP tool. Only the fields
// that are set are changed.
type UpdateUserInput struct {
	ID          int     `json:"id" jsonschema:"id of the listed user to edit"`
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty" jsonschema:"exactly 10 digits"`
	Street      *string `json:"street,omitempty"`
	City        *string `json:"city,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	Website     *string `json:"website,omitempty"`
}

// changes returns the set fields keyed by form field name.
func (in UpdateUserInput) changes() map[string]string {
	out := make(map[string]string)
	for field, v := range map[string]*string{
		user.FieldName:        in.Name,
		user.FieldEmail:       in.Email,
		user.FieldPhone:       in.Phone,
		user.FieldStreet:      in.Street,
		user.FieldCity:        in.City,
		user.FieldCompanyName: in.CompanyName,
		user.FieldWebsite:     in.Website,
	} {
		if v != nil {
			out[field] = *v
		}
	}
	return out
}

// SubmitOutput is the result of the create_user and update_user MCP tools.
type SubmitOutput struct {
	Status  string        `json:"status"` // "created", "updated", "invalid" or "failed"
	User    *user.User    `json:"user,omitempty"`
	Errors  user.ErrorMap `json:"errors,omitempty"`
	Message string        `json:"message,omitempty"`
}

// DeleteUserInput is the input for the delete_user MCP tool.
type DeleteUserInput struct {
	ID      int  `json:"id" jsonschema:"id of the listed user to delete"`
	Confirm bool `json:"confirm,omitempty" jsonschema:"must be true to actually delete; otherwise nothing is sent"`
}

// DeleteUserOutput is the result of the delete_user MCP tool.
type DeleteUserOutput struct {
	ID      int    `json:"id"`
	Status  string `json:"status"` // "deleted", "pending" or "failed"
	Message string `json:"message,omitempty"`
}
