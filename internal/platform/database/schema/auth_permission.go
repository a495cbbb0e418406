package schema

// AuthPermissionTable represents the 'auth.permission' table
type AuthPermissionTable struct {
	Table     string
	ID        string
	Name      string
	CreatedAt string
}

// AuthPermission is the schema definition for auth.permission
var AuthPermission = AuthPermissionTable{
	Table:     "auth.permission",
	ID:        "id",
	Name:      "name",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t AuthPermissionTable) Columns() []string {
	return []string{t.ID, t.Name, t.CreatedAt}
}
