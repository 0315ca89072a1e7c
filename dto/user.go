package dto

type SignupForm struct {
	Username  string `form:"username" json:"username" binding:"required,max=150"`
	Password1 string `form:"password1" json:"password1" binding:"required,password"`
	Password2 string `form:"password2" json:"password2" binding:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
