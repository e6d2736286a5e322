// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"mime/multipart"

	"group_chat_server/internal/config"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/service/authz"
)

// UserService 用户业务接口
// 处理注册登录、资料维护、角色管理和账号删除
type UserService interface {
	Register(req request.RegisterRequest) (*respond.UserRespond, error)
	// Login 用户名、邮箱或手机号登录，返回双 Token
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	RefreshToken(req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error)
	ResetPassword(req request.ResetPasswordRequest) error
	ListUsers(req request.ListUsersQuery) ([]respond.UserRespond, error)
	GetUser(userID uint) (*respond.UserRespond, error)
	// UpdateUser 本人或系统管理员
	UpdateUser(actor authz.Actor, userID uint, req request.UpdateUserRequest) (*respond.UserRespond, error)
	// DeleteUser 级联删除用户数据，作为群主的群一并解散
	DeleteUser(actor authz.Actor, userID uint) error
	ChangeRole(userID uint, req request.ChangeRoleRequest) error
	AdminChangePassword(userID uint, req request.AdminChangePasswordRequest) error
	// ActorOf 按用户当前角色构造调用者，供 JWT 中间件使用
	ActorOf(userID uint) (authz.Actor, error)
	EnsureAdmin(conf config.AdminConfig, mode string) error
}

// GroupService 群组业务接口
// 建群申请、资料修改申请、解散以及群的查询
type GroupService interface {
	SubmitCreateRequest(actor authz.Actor, req request.CreateGroupRequest) (*respond.CreateRequestRespond, error)
	ListCreateRequests(req request.ListCreateRequestsQuery) ([]respond.CreateRequestRespond, error)
	AuditCreateRequest(id uint, req request.AuditRequest) (*respond.AuditRespond, error)
	SubmitUpdateRequest(actor authz.Actor, groupID uint, req request.UpdateGroupRequest) (*respond.UpdateRequestRespond, error)
	ListUpdateRequests(req request.ListUpdateRequestsQuery) ([]respond.UpdateRequestRespond, error)
	AuditUpdateRequest(id uint, req request.AuditRequest) (*respond.AuditRespond, error)
	// DissolveGroup 群主或系统管理员解散群
	DissolveGroup(actor authz.Actor, groupID uint) error
	ListGroups(req request.ListGroupsQuery) ([]respond.GroupRespond, error)
	GetGroup(groupID uint) (*respond.GroupRespond, error)
	MyGroups(actor authz.Actor) ([]respond.MyGroupRespond, error)
	PinGroup(actor authz.Actor, groupID uint, req request.PinGroupRequest) error
}

// MemberService 群成员业务接口
// 入群申请与审核、成员管理、转让和退群
type MemberService interface {
	SubmitJoinRequest(actor authz.Actor, groupID uint, req request.JoinGroupRequest) (*respond.JoinRequestRespond, error)
	ListJoinRequests(actor authz.Actor, groupID uint, req request.ListJoinRequestsQuery) ([]respond.JoinRequestRespond, error)
	AuditJoinRequest(actor authz.Actor, requestID uint, req request.AuditRequest) (*respond.AuditRespond, error)
	ListMembers(groupID uint, req request.PageQuery) ([]respond.MemberRespond, error)
	SearchMembers(groupID uint, req request.SearchMembersQuery) ([]respond.MemberRespond, error)
	SetMemberAdmin(actor authz.Actor, groupID, userID uint, req request.SetMemberAdminRequest) error
	RemoveMember(actor authz.Actor, groupID, userID uint) error
	TransferOwnership(actor authz.Actor, groupID uint, req request.TransferOwnershipRequest) error
	QuitGroup(actor authz.Actor, groupID uint, req request.QuitGroupRequest) error
}

// ChatService 群聊消息业务接口
type ChatService interface {
	SendMessage(actor authz.Actor, groupID uint, req request.SendChatRequest) (*respond.ChatMessageRespond, error)
	ListMessages(actor authz.Actor, groupID uint, req request.ListChatsQuery) ([]respond.ChatMessageRespond, error)
	// AuthorizeSubscribe 校验是否可以订阅群事件
	AuthorizeSubscribe(actor authz.Actor, groupID uint) error
	RetractMessage(actor authz.Actor, groupID, messageID uint) (*respond.RetractRespond, error)
}

// ReportService 举报业务接口
type ReportService interface {
	Submit(actor authz.Actor, req request.SubmitReportRequest) (*respond.ReportRespond, error)
	MyReports(actor authz.Actor, req request.MyReportsQuery) ([]respond.ReportRespond, error)
	ListReports(req request.ListReportsQuery) ([]respond.ReportRespond, error)
	AuditReport(id uint, req request.AuditRequest) (*respond.AuditRespond, error)
	DeleteReport(actor authz.Actor, id uint) error
}

// FileService 上传文件存储
type FileService interface {
	Upload(fileHeader *multipart.FileHeader) (*respond.FileRespond, error)
	// Open 返回文件在磁盘上的路径
	Open(category, name string) (string, error)
	Delete(category, name string) error
}
