package constant

const (
	// token purposes carried in the JWT "purpose" claim so a verification
	// link can never be replayed as an access token
	TokenPurposeAccess       = "access"
	TokenPurposeVerification = "verification"
)
