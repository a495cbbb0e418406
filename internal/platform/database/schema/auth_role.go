package schema

// AuthRoleTable represents the 'auth.role' table
type AuthRoleTable struct {
	Table     string
	ID        string
	Name      string
	IsDeleted string
	CreatedAt string
	UpdatedAt string
}

// AuthRole is the schema definition for auth.role
var AuthRole = AuthRoleTable{
	Table:     "auth.role",
	ID:        "id",
	Name:      "name",
	IsDeleted: "isdeleted",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t AuthRoleTable) Columns() []string {
	return []string{t.ID, t.Name, t.IsDeleted, t.CreatedAt, t.UpdatedAt}
}
