package transport

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TaskRequest struct {
	Text string `json:"text"`
}

// ThemeRequest selects a theme. Confirm answers the premium unlock prompt, if one is needed.
type ThemeRequest struct {
	Theme   string `json:"theme"`
	Confirm bool   `json:"confirm"`
}

type UnlockRequest struct {
	Confirm bool `json:"confirm"`
}
