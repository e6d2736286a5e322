package request

// RegisterRequest 用户注册请求
// 使用位置:
//   - internal/handler/user_handler.go: RegisterHandler
//   - internal/service/user/service.go: Register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求，identifier 可以是用户名、邮箱或手机号
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Access Token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ResetPasswordRequest 重置密码
type ResetPasswordRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateUserRequest 修改用户资料，字段为空表示不修改
type UpdateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// ListUsersQuery 用户列表查询
type ListUsersQuery struct {
	PageQuery
	Q string `form:"q"`
}

// ChangeRoleRequest 管理员修改用户角色
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

// AdminChangePasswordRequest 管理员修改用户密码
type AdminChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
