package auth

type InRegister struct {
	Email       string `json:"email" validate:"required,email"`
	Displayname string `json:"displayname" validate:"required,min=1,max=128"`
	Password    string `json:"password" validate:"required,min=8"`
	Rank        string `json:"rank" validate:"omitempty,max=64"`
	Country     string `json:"country" validate:"omitempty,max=64"`
	City        string `json:"city" validate:"omitempty,max=64"`
}

type InSignin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OutSignin struct {
	AccessToken string `json:"access_token"`
}
