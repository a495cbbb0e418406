package schema

// AuthAccountTable represents the 'auth.account' table
type AuthAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// AuthAccount is the schema definition for auth.account
var AuthAccount = AuthAccountTable{
	Table:     "auth.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t AuthAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Status, t.CreatedAt, t.UpdatedAt}
}
