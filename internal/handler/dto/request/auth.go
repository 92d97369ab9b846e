package request

// LoginRequest carries back-office credentials. bcrypt ignores input past 72 bytes,
// so longer passwords are rejected instead of silently truncated.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"frontdesk@villa.example"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}
