package schema

// AuthLoginAuditTable represents the 'auth.loginaudit' table
type AuthLoginAuditTable struct {
	Table       string
	ID          string
	Username    string
	Action      string
	AttemptedAt string
	IPAddress   string
	UserAgent   string
}

// AuthLoginAudit is the schema definition for auth.loginaudit
var AuthLoginAudit = AuthLoginAuditTable{
	Table:       "auth.loginaudit",
	ID:          "id",
	Username:    "username",
	Action:      "action",
	AttemptedAt: "attemptedat",
	IPAddress:   "ipaddress",
	UserAgent:   "useragent",
}

// Columns returns all standard column names
func (t AuthLoginAuditTable) Columns() []string {
	return []string{t.ID, t.Username, t.Action, t.AttemptedAt, t.IPAddress, t.UserAgent}
}
