package domain

// Role type to distinguish between token holders. Tokens are issued by the
// external auth service; this service only reads the role claim.
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)
