package response

type LoginResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
