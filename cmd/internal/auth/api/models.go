package authapi

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type usernameRequest struct {
	Username string `json:"username"`
}

type passwordRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
