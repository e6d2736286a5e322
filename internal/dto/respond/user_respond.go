package respond

import "group_chat_server/internal/model"

// UserRespond 用户信息，不包含密码
type UserRespond struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// NewUserRespond 从模型构造
func NewUserRespond(u *model.User) UserRespond {
	return UserRespond{
		ID:        u.ID,
		Username:  u.Username,
		Phone:     u.Phone,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// LoginRespond 登录响应
// 使用位置:
//   - internal/handler/user_handler.go: LoginHandler
type LoginRespond struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// RefreshTokenRespond 刷新 Token 响应
type RefreshTokenRespond struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
