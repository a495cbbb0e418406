package schema

// AuthRolePermissionTable represents the 'auth.rolepermission' link table
type AuthRolePermissionTable struct {
	Table        string
	RoleID       string
	PermissionID string
	CreatedAt    string
}

// AuthRolePermission is the schema definition for auth.rolepermission
var AuthRolePermission = AuthRolePermissionTable{
	Table:        "auth.rolepermission",
	RoleID:       "roleid",
	PermissionID: "permissionid",
	CreatedAt:    "createdat",
}

// AuthAccountRoleTable represents the 'auth.accountrole' link table
type AuthAccountRoleTable struct {
	Table     string
	AccountID string
	RoleID    string
	CreatedAt string
}

// AuthAccountRole is the schema definition for auth.accountrole
var AuthAccountRole = AuthAccountRoleTable{
	Table:     "auth.accountrole",
	AccountID: "accountid",
	RoleID:    "roleid",
	CreatedAt: "createdat",
}
