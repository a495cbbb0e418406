package schema

// AuthRefreshTokenTable represents the 'auth.refreshtoken' table
type AuthRefreshTokenTable struct {
	Table     string
	ID        string
	AccountID string
	TokenID   string
	IssuedAt  string
	ExpiresAt string
	IsRevoked string
	RevokedAt string
	IPAddress string
	UserAgent string
}

// AuthRefreshToken is the schema definition for auth.refreshtoken
var AuthRefreshToken = AuthRefreshTokenTable{
	Table:     "auth.refreshtoken",
	ID:        "id",
	AccountID: "accountid",
	TokenID:   "jti",
	IssuedAt:  "issuedat",
	ExpiresAt: "expiresat",
	IsRevoked: "isrevoked",
	RevokedAt: "revokedat",
	IPAddress: "ipaddress",
	UserAgent: "useragent",
}

// Columns returns all standard column names
func (t AuthRefreshTokenTable) Columns() []string {
	return []string{t.ID, t.AccountID, t.TokenID, t.IssuedAt, t.ExpiresAt, t.IsRevoked, t.RevokedAt, t.IPAddress, t.UserAgent}
}
