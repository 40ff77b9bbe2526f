package models

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type FieldMessage struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type AuthResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    *AuthData      `json:"data,omitempty"`
	Errors  []FieldMessage `json:"errors,omitempty"`
}

type Favorite struct {
	Symbol string `json:"symbol"`
}

type FavoritesResponse struct {
	Status string     `json:"status"`
	Data   []Favorite `json:"data"`
}
