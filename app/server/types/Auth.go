package types

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type LoginToken struct {
	Token string `json:"token"`
}

type MagicLinkRequest struct {
	Email string `json:"email"`
}

type MagicLinkVerify struct {
	Token string `json:"token"`
}
